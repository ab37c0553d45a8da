package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
)

// Fingerprint identifies one build's inputs. If none of them changed the
// output tree is the same and the build can be skipped.
type Fingerprint struct {
	DataHash     string
	ContentHash  string
	ThemeHash    string
	ConfigHash   string
	RendererHash string
	RenderHash   string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.DataHash))
	h.Write([]byte{0})
	h.Write([]byte(f.ContentHash))
	h.Write([]byte{0})
	h.Write([]byte(f.ThemeHash))
	h.Write([]byte{0})
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte{0})
	h.Write([]byte(f.RendererHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashTree hashes every file path and body under fsys in lexical order.
func HashTree(fsys fs.FS) (string, error) {
	h := sha256.New()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
