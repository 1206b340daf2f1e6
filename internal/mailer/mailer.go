// internal/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"

	"pharmelo-backend/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// batchSize bounds BCC recipients per SES call.
const batchSize = 50

// SESService is the SES surface the mailer depends on, kept narrow for
// mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer delivers newsletter broadcasts over SES. When disabled it counts
// recipients without sending, so campaign records stay accurate either way.
type Mailer struct {
	enabled bool
	from    string
	ses     SESService
	logger  logger.Logger
}

func New(ctx context.Context, region, from string, enabled bool, log logger.Logger) (*Mailer, error) {
	m := &Mailer{
		enabled: enabled,
		from:    from,
		logger:  log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
	if !enabled {
		return m, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	m.ses = ses.NewFromConfig(awsCfg)
	return m, nil
}

// NewWithClient wires a pre-built SES client; used by tests.
func NewWithClient(client SESService, from string, log logger.Logger) *Mailer {
	return &Mailer{
		enabled: true,
		from:    from,
		ses:     client,
		logger:  log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
}

// Enabled reports whether broadcasts actually send.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// Broadcast BCCs the newsletter to every recipient in batches and returns
// how many addresses were attempted. A failed batch is logged and skipped
// rather than aborting the remaining ones.
func (m *Mailer) Broadcast(ctx context.Context, subject, body string, recipients []string) int {
	if !m.enabled || len(recipients) == 0 {
		return len(recipients)
	}

	attempted := 0
	for start := 0; start < len(recipients); start += batchSize {
		end := start + batchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		batch := recipients[start:end]

		input := &ses.SendEmailInput{
			Source: aws.String(m.from),
			Destination: &types.Destination{
				BccAddresses: batch,
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		}

		if _, err := m.ses.SendEmail(ctx, input); err != nil {
			m.logger.Error("newsletter batch send failed", map[string]interface{}{
				"batchStart": start,
				"batchSize":  len(batch),
				"error":      err.Error(),
			})
			continue
		}
		attempted += len(batch)
	}

	return attempted
}
