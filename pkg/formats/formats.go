// Package formats reads and writes the files isimp works on: Wavefront OBJ
// meshes with their MTL material libraries, and the binary state file that
// carries proxy labels and seeds between runs.
package formats

// Note: OBJ is implemented in obj.go, MTL output in mtl.go
// Note: the VSAS state file is implemented in state.go
