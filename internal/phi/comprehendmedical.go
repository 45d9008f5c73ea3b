package phi

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
)

// ComprehendMedicalAPI is the subset of the Comprehend Medical client the
// classifier uses.
type ComprehendMedicalAPI interface {
	DetectPHI(ctx context.Context, params *comprehendmedical.DetectPHIInput,
		optFns ...func(*comprehendmedical.Options)) (*comprehendmedical.DetectPHIOutput, error)
}

// ComprehendMedicalClassifier implements Classifier against Amazon
// Comprehend Medical. Entity order from the service is preserved.
type ComprehendMedicalClassifier struct {
	client ComprehendMedicalAPI
}

// NewComprehendMedicalClassifier wraps a Comprehend Medical client.
func NewComprehendMedicalClassifier(client ComprehendMedicalAPI) *ComprehendMedicalClassifier {
	return &ComprehendMedicalClassifier{client: client}
}

// DetectPHI returns the PHI entities the service found in text.
func (c *ComprehendMedicalClassifier) DetectPHI(ctx context.Context, text string) ([]Entity, error) {
	out, err := c.client.DetectPHI(ctx, &comprehendmedical.DetectPHIInput{
		Text: aws.String(text),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	entities := make([]Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		ent := Entity{
			Type: string(e.Type),
			Text: aws.ToString(e.Text),
		}
		if e.Score != nil {
			ent.Score = float64(*e.Score)
		}
		entities = append(entities, ent)
	}
	return entities, nil
}
