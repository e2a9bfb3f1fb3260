// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage systems like Ceph,
// SeaweedFS and Garage.
//
// # Basic Usage
//
//	client, err := minio.NewClient(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minio.NewStore(client, "numbers", "runs/")
//	blob, err := store.Open(ctx, "input.bin")
//
// Streaming writes are uploaded while they are written and committed by
// Close. An aborted write never becomes visible.
package minio
