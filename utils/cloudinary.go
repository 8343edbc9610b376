package utils

import (
	"fmt"

	"homeserve/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Cloudinary initializes a Cloudinary client from the loaded configuration.
func Cloudinary() (*cloudinary.Cloudinary, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return cld, nil
}
