package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/fd1az/smart-pricing/internal/apperror"
	"github.com/fd1az/smart-pricing/internal/httpclient"
)

// maxArtifactBytes caps artifacts read from disk.
const maxArtifactBytes = 64 << 20

// ErrMalformed is the cause of decode and validation failures. Retrying
// cannot fix them until the artifact itself changes.
var ErrMalformed = errors.New("malformed artifact")

// Loader reads raw artifact bytes from a location.
type Loader struct {
	location string
	client   httpclient.Client
}

// NewLoader creates a Loader. location is a plain path, a file:// URL or an
// http(s):// URL; client is only used for the latter and may be nil otherwise.
func NewLoader(location string, client httpclient.Client) *Loader {
	return &Loader{location: location, client: client}
}

// Location returns the configured location.
func (l *Loader) Location() string {
	return l.location
}

// Load reads, decodes and validates the artifact. Every failure is an
// ARTIFACT_LOAD_FAILED or ARTIFACT_INVALID app error.
func (l *Loader) Load(ctx context.Context) (*Artifact, error) {
	raw, err := l.read(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeArtifactLoadFailed,
			apperror.WithContext(l.location), apperror.WithCause(err))
	}
	return Decode(raw)
}

// Decode parses and validates artifact JSON.
func Decode(raw []byte) (*Artifact, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var a Artifact
	if err := dec.Decode(&a); err != nil {
		return nil, apperror.New(apperror.CodeArtifactLoadFailed,
			apperror.WithContext("decode"), apperror.WithCause(fmt.Errorf("%w: %w", ErrMalformed, err)))
	}
	if err := a.Validate(); err != nil {
		return nil, apperror.New(apperror.CodeArtifactInvalid,
			apperror.WithContext(err.Error()), apperror.WithCause(fmt.Errorf("%w: %w", ErrMalformed, err)))
	}
	return &a, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.location == "" {
		return nil, fmt.Errorf("no artifact location configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(l.location, "http://"), strings.HasPrefix(l.location, "https://"):
		return l.fetch(ctx)
	case strings.HasPrefix(l.location, "file://"):
		u, err := url.Parse(l.location)
		if err != nil {
			return nil, err
		}
		return readFile(u.Path)
	default:
		return readFile(l.location)
	}
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if l.client == nil {
		return nil, fmt.Errorf("no http client for %s", l.location)
	}
	resp, err := l.client.Get(ctx, l.location)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body(), nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxArtifactBytes {
		return nil, fmt.Errorf("artifact is %d bytes, limit %d", info.Size(), maxArtifactBytes)
	}
	return os.ReadFile(path)
}

// IsLoadFailure reports whether err came from loading an artifact.
func IsLoadFailure(err error) bool {
	switch apperror.GetCode(err) {
	case apperror.CodeArtifactLoadFailed, apperror.CodeArtifactInvalid:
		return true
	}
	return false
}
