package stream

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ErrInvalidLocation is returned for a location that cannot be parsed.
var ErrInvalidLocation = errors.New("stream: invalid location")

// Scheme identifies where a Location lives.
type Scheme int

const (
	// SchemeStdio is standard input for reads and standard output for writes.
	SchemeStdio Scheme = iota
	// SchemeFile is the local file system.
	SchemeFile
	// SchemeS3 is Amazon S3.
	SchemeS3
	// SchemeMinIO is a MinIO or other S3-compatible endpoint.
	SchemeMinIO
)

func (s Scheme) String() string {
	switch s {
	case SchemeStdio:
		return "stdio"
	case SchemeFile:
		return "file"
	case SchemeS3:
		return "s3"
	case SchemeMinIO:
		return "minio"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Location is a parsed input or output location.
type Location struct {
	Scheme Scheme
	// Bucket is set for object stores.
	Bucket string
	// Key is the object key, or the cleaned path for SchemeFile.
	Key string
}

// ParseLocation parses "-", a local path, file://path, s3://bucket/key or
// minio://bucket/key.
func ParseLocation(raw string) (Location, error) {
	switch {
	case raw == "-":
		return Location{Scheme: SchemeStdio}, nil
	case raw == "":
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	case !strings.Contains(raw, "://"):
		return Location{Scheme: SchemeFile, Key: filepath.Clean(raw)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		if p == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidLocation, raw)
		}
		return Location{Scheme: SchemeFile, Key: filepath.Clean(filepath.FromSlash(p))}, nil
	case "s3", "minio":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidLocation, raw)
		}
		scheme := SchemeS3
		if strings.EqualFold(u.Scheme, "minio") {
			scheme = SchemeMinIO
		}
		return Location{Scheme: scheme, Bucket: u.Host, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, u.Scheme)
	}
}

// Name returns the path or object key, used to detect compression from the
// file extension. It is empty for SchemeStdio.
func (l Location) Name() string {
	if l.Scheme == SchemeStdio {
		return ""
	}
	return l.Key
}

func (l Location) String() string {
	switch l.Scheme {
	case SchemeStdio:
		return "-"
	case SchemeFile:
		return l.Key
	default:
		return l.Scheme.String() + "://" + l.Bucket + "/" + l.Key
	}
}
