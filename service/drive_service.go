package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"hitech-quotation-tool/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveImage is an image file found in a Drive folder
type DriveImage struct {
	ID       string
	Name     string
	MimeType string
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ListImages lists all image files in a Google Drive folder, ordered by name
func (ds *DriveService) ListImages(ctx context.Context, folderID string) ([]DriveImage, error) {
	if strings.TrimSpace(folderID) == "" {
		return nil, &models.ValidationError{Field: "folderId", Message: "folder id is required"}
	}
	query := fmt.Sprintf("'%s' in parents and trashed=false", strings.ReplaceAll(folderID, "'", "\\'"))

	var images []DriveImage
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			OrderBy("name").
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, file := range r.Files {
			if !imageMimeTypes[strings.ToLower(file.MimeType)] {
				continue
			}
			images = append(images, DriveImage{ID: file.Id, Name: file.Name, MimeType: file.MimeType})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	log.Printf("📦 Found %d images in Drive folder %s", len(images), folderID)
	return images, nil
}

// Download fetches the raw bytes of a Drive file
func (ds *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// driveSource is a queue source whose bytes are fetched when the item starts
type driveSource struct {
	drive DriveServiceInterface
	image DriveImage
}

func (s *driveSource) FileName() string { return s.image.Name }

func (s *driveSource) Open(ctx context.Context) (io.ReadCloser, error) {
	data, err := s.drive.Download(ctx, s.image.ID)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// QueueFromDrive lists the folder and builds one pending queue item per image
func QueueFromDrive(ctx context.Context, drive DriveServiceInterface, folderID string) ([]*models.UploadQueueItem, error) {
	images, err := drive.ListImages(ctx, folderID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.UploadQueueItem, 0, len(images))
	for _, img := range images {
		items = append(items, NewQueueItem(&driveSource{drive: drive, image: img}))
	}
	return items, nil
}
