package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"foodsafety-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	AllowImage    = []string{"image/jpeg", "image/jpg", "image/png"}
	AllowPDF      = []string{"application/pdf"}
	AllowEvidence = append(append([]string{}, AllowImage...), AllowPDF...)

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

type (
	AwsS3 interface {
		// UploadFile stores file under folder/name and returns the object key.
		UploadFile(ctx context.Context, name string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error)
		GetPublicLinkKey(objectKey string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to load aws config: %v", err))
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

func (a *awsS3) UploadFile(ctx context.Context, name string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if len(allowTypes) > 0 && !IsAllowed(contentType, allowTypes...) {
		return "", ErrFileTypeNotAllowed
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := path.Join(folder, name+strings.ToLower(filepath.Ext(file.Filename)))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          src,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func IsAllowed(contentType string, allowTypes ...string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range allowTypes {
		if contentType == t {
			return true
		}
	}
	return false
}
