package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	DriveScope    = drive.DriveFileScope
	MaxUploadSize = 10 << 20
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type UploadedFile struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

// FileUploader menyimpan file memakai access token milik pengguna.
type FileUploader interface {
	Upload(ctx context.Context, accessToken, filename string, r io.Reader) (*UploadedFile, error)
}

// DriveUploader mengunggah gambar ke Google Drive dan membuatnya dapat
// dilihat siapa saja yang memiliki tautan.
type DriveUploader struct {
	folderID   string
	endpoint   string
	httpClient *http.Client
}

func NewDriveUploader(folderID string) *DriveUploader {
	return &DriveUploader{
		folderID:   folderID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ImageContentType memvalidasi ekstensi file gambar.
func ImageContentType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return "", validationError("Format file tidak didukung. Gunakan JPG, JPEG, PNG, GIF, atau WEBP")
	}
	return contentType, nil
}

// PublicFileURL adalah URL tampilan langsung untuk file Drive.
func PublicFileURL(fileID string) string {
	return "https://drive.google.com/uc?export=view&id=" + fileID
}

func (d *DriveUploader) Upload(ctx context.Context, accessToken, filename string, r io.Reader) (*UploadedFile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, unauthorizedError("Access token Google Drive diperlukan")
	}
	contentType, err := ImageContentType(filename)
	if err != nil {
		return nil, err
	}

	svc, err := d.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	meta := &drive.File{
		Name:     fmt.Sprintf("ekantin-%d-%s", time.Now().UnixMilli(), filepath.Base(filename)),
		MimeType: contentType,
	}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	created, err := svc.Files.Create(meta).
		Media(r).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "Gagal mengupload file ke Google Drive", Err: err}
	}

	_, err = svc.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "Gagal mengatur izin file Google Drive", Err: err}
	}

	return &UploadedFile{FileID: created.Id, URL: PublicFileURL(created.Id)}, nil
}

func (d *DriveUploader) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	base := d.httpClient
	if base == nil {
		base = http.DefaultClient
	}
	client := &http.Client{
		Timeout: base.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   base.Transport,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if d.endpoint != "" {
		opts = append(opts, option.WithEndpoint(d.endpoint))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
