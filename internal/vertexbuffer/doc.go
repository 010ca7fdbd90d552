// Package vertexbuffer decodes per-vertex binary records into typed,
// per-attribute columns.
//
// A Layout declares which attributes a record holds, how each is stored in
// the source bytes and what it decodes to. Interleaved layouts read one
// contiguous region of packed records; planar layouts read one region per
// attribute. Decoding is a pure transform: it performs no I/O and keeps no
// reference to its input beyond the returned Buffer.
package vertexbuffer
