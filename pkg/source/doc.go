// Package source implements catalog.Source on top of Firestore and on top of
// an in-memory document set.
//
// Firestore is the system of record in production:
//
//	src, err := source.NewFirestore(ctx, source.FirestoreConfig{
//	    ProjectID:  "bodeguitavanesa",
//	    DatabaseID: "negociovanesa",
//	})
//
// The in-memory source serves local runs from a JSON fixture file with one
// array of documents per collection:
//
//	{"productos": [{"id": "p1", "nombre": "Coca Cola 500ml", "estado": "activo"}]}
package source
