package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/MeKo-Tech/phiredact/internal/config"
	"github.com/MeKo-Tech/phiredact/internal/ocr"
	"github.com/MeKo-Tech/phiredact/internal/phi"
	"github.com/MeKo-Tech/phiredact/internal/storage"
)

// collaborators bundles the external services the pipeline talks to.
type collaborators struct {
	store      storage.ObjectStore
	detector   ocr.TextDetector
	classifier phi.Classifier
}

// buildCollaborators wires the AWS-backed store, detector and classifier
// from the default credential chain. When localDir is set the object store
// is a local directory instead of S3 and the detector submits image bytes
// inline, since Rekognition cannot read local files.
func buildCollaborators(ctx context.Context, cfg *config.Config, localDir string) (*collaborators, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	rekClient := rekognition.NewFromConfig(awsCfg)
	classifier := phi.NewComprehendMedicalClassifier(comprehendmedical.NewFromConfig(awsCfg))

	if localDir != "" {
		store := storage.NewDirStore(localDir)
		return &collaborators{
			store:      store,
			detector:   ocr.NewRekognitionBytesDetector(rekClient, store.Get),
			classifier: classifier,
		}, nil
	}

	return &collaborators{
		store:      storage.NewS3Store(s3.NewFromConfig(awsCfg)),
		detector:   ocr.NewRekognitionDetector(rekClient),
		classifier: classifier,
	}, nil
}
