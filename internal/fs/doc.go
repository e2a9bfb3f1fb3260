// Package fs abstracts the file operations of the local blob store so tests
// can inject I/O failures.
//
// Production code uses [Default] ([LocalFS]). Tests wrap it in [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
package fs
