// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("runs/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	blob, err := store.Open(ctx, "input.bin.zst")
//
// # Features
//
//   - Range reads for partial fetches
//   - Streaming multipart uploads with CRC32C checksums
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
