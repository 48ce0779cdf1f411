package utils

import (
	"context"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Navneet1206/appoint-healers/config"
)

// UploadToCloudinary uploads a professional's document (degree/license PDF or
// profile picture) and returns the secure URL.
func UploadToCloudinary(cfg config.CloudinaryConfig, file interface{}, publicID string, folder string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return "", err
	}

	uploadParams := uploader.UploadParams{
		PublicID: publicID,
		Folder:   folder,
	}

	// Thumbnail transformation only applies to images, not license PDFs
	if fileStr, ok := file.(string); ok {
		ext := filepath.Ext(fileStr)
		if ext != ".pdf" && ext != ".PDF" {
			uploadParams.Transformation = "c_thumb,w_200,h_200"
		}
	}

	resp, err := cld.Upload.Upload(context.Background(), file, uploadParams)
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
