// Package mmap maps input files read-only into memory.
//
// The local blob store uses it so that large binary inputs are decoded
// straight from the page cache instead of being copied through a read
// buffer first.
//
//	m, err := mmap.Open("numbers.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) and madvise(2); on Windows it uses
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but no
// goroutine may touch a slice returned by Bytes after Close returns.
package mmap
