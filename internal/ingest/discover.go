package ingest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type SourceFile struct {
	// Path 相对 root，使用 "/" 分隔，和数据文件里的 content 引用同一形式
	Path string
}

// DiscoverMarkdown lists every markdown file below root.
func DiscoverMarkdown(root string) ([]SourceFile, error) {
	var out []SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, SourceFile{Path: filepath.ToSlash(rel)})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}
