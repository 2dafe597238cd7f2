// Package notebook holds the in-memory representation of a Jupyter
// notebook document: ordered cells with source, metadata, and outputs.
//
// The gateway only reads notebooks; outputs are attached by the execution
// engine. Parsing keeps the original serialized form so the document can
// be handed to the engine byte-for-byte as received.
package notebook
