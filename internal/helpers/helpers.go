package helpers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"
)

const (
	ImagesFolder = "eventx-studio"
	qrCodeSize   = 256
)

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// RemoveDuplicates trims every entry and drops blanks and repeats, keeping order.
func RemoveDuplicates(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = StringTrim(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TicketLink is the URL a ticket's QR code points to.
func TicketLink(baseURL, ticketID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + ticketID
}

// TicketQRCode renders the ticket link as a PNG QR code wrapped in a data URL.
func TicketQRCode(baseURL, ticketID string) (string, error) {
	png, err := qrcode.Encode(TicketLink(baseURL, ticketID), qrcode.Medium, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// CloudinaryStore keeps profile images on Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, folder: ImagesFolder}
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     uuid.New().String(),
		ResourceType: "image",
		Tags:         []string{"eventx"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, imageURL string) error {
	publicID := PublicIDFromURL(imageURL)
	if publicID == "" {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete image %s: %v", publicID, err)
	}
	return nil
}

// PublicIDFromURL extracts "folder/name" from a Cloudinary delivery URL.
// Legacy local paths ("images/...") and anything unparsable yield "".
func PublicIDFromURL(imageURL string) string {
	if !strings.HasPrefix(imageURL, "http") {
		return ""
	}
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	dir, file := path.Split(u.Path)
	folder := path.Base(dir)
	name := strings.TrimSuffix(file, path.Ext(file))
	if name == "" || folder == "" || folder == "." || folder == "/" {
		return ""
	}
	return folder + "/" + name
}
