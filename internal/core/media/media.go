// Package media 上传图片落盘与缩略图。
// 目录布局：<root>/{profile|books}/<name> 与 <root>/{profile|books}/thumb/<name>
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"bookreview/pkg/utils"
)

type Category string

const (
	Profile Category = "profile"
	Books   Category = "books"
)

const (
	ProfileThumbSize = 150
	BookMaxWidth     = 990
)

var ErrNotImage = errors.New("not a supported image")

// allowed 允许的 MIME → 落盘扩展名
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// Upload 请求中的一份图片；nil 表示未上传
type Upload struct {
	Filename string
	Data     []byte
}

// ReadUpload 读取 multipart 文件（带大小上限，超出部分截断后由校验拒绝）
func ReadUpload(fh *multipart.FileHeader, limit int64) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	return &Upload{Filename: fh.Filename, Data: data}, nil
}

// Detect 按文件头识别格式并确认可解码，返回扩展名
func Detect(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	ext, ok := allowed[mt.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return ext, nil
}

type Store struct {
	root string
	log  *zap.Logger
	now  func() time.Time
}

func NewStore(root string, log *zap.Logger) (*Store, error) {
	for _, c := range []Category{Profile, Books} {
		if err := os.MkdirAll(filepath.Join(root, string(c), "thumb"), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{root: root, log: log, now: time.Now}, nil
}

func (s *Store) Root() string { return s.root }

func (s *Store) Path(c Category, name string) string {
	return filepath.Join(s.root, string(c), name)
}

func (s *Store) ThumbPath(c Category, name string) string {
	return filepath.Join(s.root, string(c), "thumb", name)
}

// Save 先在内存里解码并生成缩略图，成功后再写原图与缩略图；返回新文件名。
// 解码失败不会触碰文件系统。
func (s *Store) Save(c Category, data []byte) (string, error) {
	ext, err := Detect(data)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", err
	}
	var thumb bytes.Buffer
	if err := imaging.Encode(&thumb, resize(c, img), format); err != nil {
		return "", fmt.Errorf("encode thumb: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().Unix(), utils.NewID(), ext)
	if err := writeExcl(s.Path(c, name), data); err != nil {
		return "", err
	}
	if err := writeExcl(s.ThumbPath(c, name), thumb.Bytes()); err != nil {
		_ = os.Remove(s.Path(c, name))
		return "", err
	}
	return name, nil
}

func resize(c Category, img image.Image) image.Image {
	if c == Profile {
		return imaging.Fill(img, ProfileThumbSize, ProfileThumbSize, imaging.Center, imaging.Lanczos)
	}
	if img.Bounds().Dx() > BookMaxWidth {
		return imaging.Resize(img, BookMaxWidth, 0, imaging.Lanczos)
	}
	return img
}

// writeExcl O_EXCL 创建，同名文件存在即失败，绝不覆盖
func writeExcl(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// Remove 删除原图和缩略图；文件不存在不算错误，其它失败只记 WARN
func (s *Store) Remove(c Category, name string) {
	if name == "" {
		return
	}
	for _, p := range []string{s.Path(c, name), s.ThumbPath(c, name)} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("remove upload", zap.String("path", p), zap.Error(err))
		}
	}
}
