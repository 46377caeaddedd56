package service

import "github.com/hubinity/hubinity-api/internal/models"

// DeriveTaskStatus computes a task's aggregate status from its submission
// ledger. The stored tasks.status column is a cache of this function and is
// rewritten after every ledger mutation.
//
// Precedence, first match wins:
//  1. any approved        -> completed
//  2. any under-review    -> under-review
//  3. any pending         -> submitted
//  4. all rejected (>=1)  -> rejected
//  5. empty ledger        -> open
//
// Approval is sticky: once one submission is accepted the task stays
// completed no matter what later submissions or rejections do.
func DeriveTaskStatus(submissions []models.Submission) models.TaskStatus {
	if len(submissions) == 0 {
		return models.TaskStatusOpen
	}

	hasUnderReview := false
	hasPending := false
	allRejected := true

	for _, s := range submissions {
		switch s.Status {
		case models.SubmissionStatusApproved:
			return models.TaskStatusCompleted
		case models.SubmissionStatusUnderReview:
			hasUnderReview = true
			allRejected = false
		case models.SubmissionStatusPending:
			hasPending = true
			allRejected = false
		case models.SubmissionStatusRejected:
		default:
			allRejected = false
		}
	}

	switch {
	case hasUnderReview:
		return models.TaskStatusUnderReview
	case hasPending:
		return models.TaskStatusSubmitted
	case allRejected:
		return models.TaskStatusRejected
	default:
		return models.TaskStatusOpen
	}
}
