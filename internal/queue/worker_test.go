package queue

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/logger"
)

func testWorker() *Worker {
	return &Worker{log: logger.New("test")}
}

func TestFinishSuccess(t *testing.T) {
	w := testWorker()
	if err := w.finish(TaskEnrich, "cc-1", pipeline.Done()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestFinishRetryable(t *testing.T) {
	w := testWorker()
	cause := errors.New("search provider unavailable")

	err := w.finish(TaskEnrich, "cc-1", pipeline.Fail(cause, true))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Error("retryable failure must not skip retries")
	}
}

func TestFinishNonRetryable(t *testing.T) {
	w := testWorker()
	cause := errors.New("gmail rejected credentials")

	err := w.finish(TaskSend, "cc-1", pipeline.Fail(cause, false))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("non-retryable failure must skip retries, got %v", err)
	}
}

func TestEnrichTaskRoundTrip(t *testing.T) {
	payload := EnrichPayload{CampaignContactID: uuid.New(), CampaignID: uuid.New()}

	task, err := NewEnrichTask(payload)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskEnrich {
		t.Errorf("expected type %q, got %q", TaskEnrich, task.Type())
	}

	got, err := ParseEnrichPayload(task)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if got != payload {
		t.Errorf("expected %+v, got %+v", payload, got)
	}
}

func TestParseSendPayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskSend, []byte("not json"))
	if _, err := ParseSendPayload(task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
