package phi

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	cmtypes "github.com/aws/aws-sdk-go-v2/service/comprehendmedical/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComprehendMedical struct {
	out     *comprehendmedical.DetectPHIOutput
	err     error
	gotText string
}

func (f *fakeComprehendMedical) DetectPHI(_ context.Context, params *comprehendmedical.DetectPHIInput,
	_ ...func(*comprehendmedical.Options),
) (*comprehendmedical.DetectPHIOutput, error) {
	f.gotText = aws.ToString(params.Text)
	return f.out, f.err
}

func TestComprehendMedicalClassifier_DetectPHI(t *testing.T) {
	fake := &fakeComprehendMedical{
		out: &comprehendmedical.DetectPHIOutput{
			Entities: []cmtypes.Entity{
				{Score: aws.Float32(0.91), Type: cmtypes.EntitySubTypeName, Text: aws.String("John Doe")},
				{Score: aws.Float32(0.42), Type: cmtypes.EntitySubTypeDate, Text: aws.String("2019-03-01")},
			},
		},
	}

	cls := NewComprehendMedicalClassifier(fake)
	entities, err := cls.DetectPHI(context.Background(), "Patient: John Doe, seen 2019-03-01")
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, "Patient: John Doe, seen 2019-03-01", fake.gotText)
	assert.InDelta(t, 0.91, entities[0].Score, 1e-6)
	assert.Equal(t, "John Doe", entities[0].Text)
	assert.Equal(t, string(cmtypes.EntitySubTypeName), entities[0].Type)
	// Service order preserved; the top-entity policy depends on it.
	assert.InDelta(t, 0.42, entities[1].Score, 1e-6)
}

func TestComprehendMedicalClassifier_ServiceError(t *testing.T) {
	fake := &fakeComprehendMedical{err: errors.New("connection reset")}
	cls := NewComprehendMedicalClassifier(fake)

	_, err := cls.DetectPHI(context.Background(), "some text")
	require.ErrorIs(t, err, ErrUnavailable)
}
