// Package intake 校验并命名上传的求职文档（CV）。
// 接受 PDF 与 Word（老格式 .doc 与 OOXML .docx），大小受配置上限约束。
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/google/uuid"
)

// DefaultMaxCVBytes 是未配置时的大小上限（5 MiB，与原有行为一致）。
const DefaultMaxCVBytes = 5 << 20

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type: only PDF and Word documents are allowed")
	ErrPayloadTooLarge      = errors.New("payload too large: CV must not exceed the size limit")
	ErrMaliciousFile        = errors.New("malicious file detected")
)

// allowedTypes 将可接受的 MIME 类型映射到规范扩展名。
var allowedTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ValidateCV 检查上传文件的大小与媒体类型。
func ValidateCV(fh *multipart.FileHeader, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxCVBytes
	}
	if fh.Size > maxBytes {
		return ErrPayloadTooLarge
	}
	if _, ok := allowedTypes[ContentType(fh)]; !ok {
		return ErrUnsupportedMediaType
	}
	return nil
}

// ContentType 返回文件的媒体类型；Header 缺失时按扩展名回推。
func ContentType(fh *multipart.FileHeader) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if mediaType, _, found := strings.Cut(ct, ";"); found {
		ct = strings.TrimSpace(mediaType)
	}
	if ct != "" && ct != "application/octet-stream" {
		return strings.ToLower(ct)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if mime, ok := allowedExtensions[ext]; ok {
		return mime
	}
	return ct
}

// ObjectKey 为接受的 CV 生成对象存储 key：cv/<userID>/<uuid><ext>。
func ObjectKey(userID uint, contentType string) string {
	ext := allowedTypes[contentType]
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("cv/%d/%s%s", userID, uuid.NewString(), ext)
}

// ContentTypeForKey 根据对象 key 的扩展名回推媒体类型，用于回传下载。
func ContentTypeForKey(key string) string {
	if mime, ok := allowedExtensions[strings.ToLower(filepath.Ext(key))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ScanStream 通过 clamd 扫描文件内容；addr 为空时跳过。
func ScanStream(addr string, reader io.Reader) error {
	if strings.TrimSpace(addr) == "" {
		return nil
	}

	clamdClient := clamd.NewClamd(addr)

	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return ErrMaliciousFile
		}
	}
	return nil
}
