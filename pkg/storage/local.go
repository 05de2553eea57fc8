// Package storage 报告附件的本地文件存储。
//
// 仅接受白名单扩展名；文件名先做安全化处理，重名时追加数字后缀。
// 存储的文件按名称只读提供下载。
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrRejected = errors.New("附件类型不允许或文件为空")
	ErrNotFound = errors.New("附件不存在")
)

// AllowedExtensions 允许上传的附件扩展名
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".pdf":  true,
}

// maxSuffix 同名文件的最大后缀编号
const maxSuffix = 10000

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// LocalStore 基于本地目录的附件存储
type LocalStore struct {
	dir string
}

// NewLocalStore 创建存储目录（若不存在）并返回 LocalStore
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建附件目录失败: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir 存储目录
func (s *LocalStore) Dir() string { return s.dir }

// Save 保存附件，返回实际存储的文件名
// 文件名为空、安全化后为空或扩展名不在白名单内时返回 ErrRejected
func (s *LocalStore) Save(filename string, content io.Reader) (string, error) {
	safe := SecureFilename(filename)
	if safe == "" {
		return "", ErrRejected
	}
	ext := strings.ToLower(filepath.Ext(safe))
	if !AllowedExtensions[ext] {
		return "", ErrRejected
	}
	base := strings.TrimSuffix(safe, filepath.Ext(safe))

	name := safe
	for i := 1; i <= maxSuffix; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			name = fmt.Sprintf("%s_%d%s", base, i, ext)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("创建附件文件失败: %w", err)
		}

		if _, err := io.Copy(f, content); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("写入附件失败: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("写入附件失败: %w", err)
		}
		return name, nil
	}

	return "", fmt.Errorf("附件重名过多: %s", safe)
}

// Open 按存储名打开附件（只读）
func (s *LocalStore) Open(name string) (*os.File, error) {
	if name == "" || name != SecureFilename(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove 删除已存储的附件，文件不存在时视为成功
func (s *LocalStore) Remove(name string) error {
	if name == "" || name != SecureFilename(name) {
		return ErrNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除附件失败: %w", err)
	}
	return nil
}

// SecureFilename 将上传文件名规整为可安全落盘的 ASCII 名称
//   - Unicode 兼容分解后丢弃非 ASCII 字符
//   - 路径分隔符视为空白，空白折叠为下划线
//   - 仅保留 [A-Za-z0-9_.-]，去掉首尾的点与下划线
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	ascii := b.String()

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeChars.ReplaceAllString(ascii, "")
	return strings.Trim(ascii, "._")
}
