// Package stream moves int32 sequences between storage locations and memory.
//
// A location is either "-" (stdin/stdout), a local path, or an object URI
// (s3://bucket/key, minio://bucket/key). Reads and writes pass through the
// resource controller for IO throttling and buffer accounting, through
// optional compression and through a codec.
package stream
