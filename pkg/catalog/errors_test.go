package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Classification(t *testing.T) {
	cause := errors.New("deadline exceeded")

	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantInvalid  bool
		wantUpstream bool
	}{
		{"not found", notFound("Producto no encontrado", nil), true, false, false},
		{"invalid input", invalidInput("Se requiere un término de búsqueda", nil), false, true, false},
		{"upstream", upstream("Error al obtener productos", cause), false, false, true},
		{"wrapped", fmt.Errorf("handler: %w", notFound("x", nil)), true, false, false},
		{"plain", cause, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFound(tt.err))
			assert.Equal(t, tt.wantInvalid, IsInvalidInput(tt.err))
			assert.Equal(t, tt.wantUpstream, IsUpstream(tt.err))
		})
	}
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := upstream("Error al obtener productos", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream: Error al obtener productos: connection refused", err.Error())
	assert.Equal(t, "not_found: Producto no encontrado", notFound("Producto no encontrado", nil).Error())

	_, ok := AsError(cause)
	assert.False(t, ok)
}
