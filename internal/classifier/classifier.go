package classifier

import (
	"context"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Classifier maps normalized texts to category labels. Implementations are
// expected to return exactly one label per input text; callers must check.
type Classifier interface {
	Predict(ctx context.Context, texts []string) ([]string, error)
}

// Fingerprinter identifies the model behind a Classifier. Labels produced
// under one fingerprint are not valid under another.
type Fingerprinter interface {
	Fingerprint() string
}

func digest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
