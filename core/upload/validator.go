package upload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// HeadSize is the number of leading bytes inspected when sniffing content.
const HeadSize = 3072

// DefaultTypes maps each allowed extension to the content kind its bytes must have.
var DefaultTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// DefaultValidator enforces DefaultTypes.
var DefaultValidator = NewValidator(DefaultTypes)

// IsAllowed reports whether DefaultValidator accepts the file.
func IsAllowed(filename, declaredContentType string, content []byte) bool {
	return DefaultValidator.Check(filename, declaredContentType, content) == nil
}

// Validator checks uploads against an extension to content-kind table.
type Validator struct {
	byExt    map[string]string
	declared map[string]struct{}
}

// NewValidator builds a Validator. Extensions are matched case-insensitively
// and must include the leading dot. Declared content types are allowed if
// they appear as a value in types.
func NewValidator(types map[string]string) *Validator {
	v := &Validator{
		byExt:    make(map[string]string, len(types)),
		declared: make(map[string]struct{}, len(types)),
	}
	for ext, kind := range types {
		kind = strings.ToLower(kind)
		v.byExt[strings.ToLower(ext)] = kind
		v.declared[kind] = struct{}{}
	}
	return v
}

// Check validates filename, the client-declared content type and the
// leading bytes of the content. Only the first HeadSize bytes of head are
// inspected. The extension picks the kind the bytes must have; the declared
// type only has to be one of the allowed kinds.
func (v *Validator) Check(filename, declaredContentType string, head []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := v.byExt[ext]
	if !ok {
		return fmt.Errorf("%w: %w: %q", ErrValidationFailed, ErrExtensionNotAllowed, ext)
	}

	declared := normalizeContentType(declaredContentType)
	if _, ok := v.declared[declared]; !ok {
		return fmt.Errorf("%w: %w: %q", ErrValidationFailed, ErrContentTypeNotAllowed, declaredContentType)
	}

	if len(head) > HeadSize {
		head = head[:HeadSize]
	}
	sniffed := v.sniff(head)
	if sniffed == "" {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrUnknownSignature)
	}
	if sniffed != want {
		return fmt.Errorf("%w: %w: %s is %s", ErrValidationFailed, ErrSignatureMismatch, ext, sniffed)
	}
	return nil
}

// Wrap validates the start of r and returns a reader yielding the complete
// stream, peeked bytes included.
func (v *Validator) Wrap(filename, declaredContentType string, r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, HeadSize)
	head, err := br.Peek(HeadSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload head: %w", err)
	}
	if err := v.Check(filename, declaredContentType, head); err != nil {
		return nil, err
	}
	return br, nil
}

// Accept returns the allowed extensions as a comma list for an HTML
// file input's accept attribute.
func (v *Validator) Accept() string {
	exts := make([]string, 0, len(v.byExt))
	for ext := range v.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ",")
}

// sniff returns the first allowed kind in the detected type's hierarchy,
// or "" when the content is not one of the allowed kinds.
func (v *Validator) sniff(head []byte) string {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		kind := normalizeContentType(m.String())
		if _, ok := v.declared[kind]; ok {
			return kind
		}
	}
	return ""
}

func normalizeContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
