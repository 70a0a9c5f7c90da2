// Package graph provides serialization types for placemat board documents.
//
// This package defines the canonical wire format for Placemat's board data,
// used for JSON files, API responses, caching, and document stores.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Document]: Serialization type (this package)
//   - pkg/board.Board: Internal board representation
//
// Use [FromBoard]/[ToBoard] to convert between them. Structs carry both
// json and bson tags so the same types serve files, the HTTP API, and the
// MongoDB document store.
//
// # Document Serialization
//
// Documents use a simple JSON format:
//
//	{
//	  "nodes": [{"id": "api", "x": 30, "y": 40, "w": 60, "h": 30, "movable": true}],
//	  "placemats": [{"id": "services", "w": 300, "h": 200, "z": 0}],
//	  "edges": [{"from": "api", "to": "db"}]
//	}
//
// Common operations:
//
//	b, _ := graph.ReadBoardFile("board.json")   // File → Board
//	graph.WriteBoardFile(b, "output.json")      // Board → File
//	data, _ := graph.MarshalBoard(b)            // Board → []byte
//	doc, _ := graph.UnmarshalDocument(data)     // []byte → Document
//
// Round-trip fidelity covers the collapse state: a document saved with a
// collapsed placemat restores the same snapshot and hidden flags on load.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
