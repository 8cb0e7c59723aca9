package notify

import (
	"context"
	"fmt"
	"strings"

	"recruiter-allocation/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSPublisher posts the JSON event to a topic with the event type and
// project as message attributes for subscription filters.
type SNSPublisher struct {
	client   SNSService
	topicARN string
}

func NewSNSPublisher(client SNSService, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Publish(ctx context.Context, event models.CandidateAssignedEvent) error {
	body, err := encode(event)
	if err != nil {
		return err
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("Candidate assigned"),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(event.Type)},
			"projectId": {DataType: aws.String("String"), StringValue: aws.String(event.ProjectID)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: sns: %v", ErrPublishFailed, err)
	}
	return nil
}

// EmailPublisher emails the assigned recruiter. Events without a recruiter
// email are skipped.
type EmailPublisher struct {
	client SESService
	from   string
}

func NewEmailPublisher(client SESService, from string) *EmailPublisher {
	return &EmailPublisher{client: client, from: from}
}

func (p *EmailPublisher) Publish(ctx context.Context, event models.CandidateAssignedEvent) error {
	if event.RecruiterEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("New candidate %s for role %s", event.CandidateID, event.RoleID)
	_, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{ToAddresses: []string{event.RecruiterEmail}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(emailBody(event))},
			},
		},
		Source: aws.String(p.from),
	})
	if err != nil {
		return fmt.Errorf("%w: ses: %v", ErrPublishFailed, err)
	}
	return nil
}

func emailBody(event models.CandidateAssignedEvent) string {
	var b strings.Builder
	name := event.RecruiterName
	if name == "" {
		name = event.RecruiterID
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Candidate %s has been assigned to you for role %s in project %s.\n",
		event.CandidateID, event.RoleID, event.ProjectID)
	fmt.Fprintf(&b, "Match score: %d\n", event.Score)
	if len(event.Reasons) > 0 {
		b.WriteString("\nWhy they matched:\n")
		for _, r := range event.Reasons {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}
	return b.String()
}
