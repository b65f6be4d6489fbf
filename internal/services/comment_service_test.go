// internal/services/comment_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

func testComment(body string) models.Comment {
	comment := models.Comment{Body: body}
	comment.ID = uuid.New()
	return comment
}

func TestAssembleThreadsGroupsRepliesUnderRoots(t *testing.T) {
	rootA := testComment("first")
	rootB := testComment("second")

	replyA1 := testComment("re: first")
	replyA1.ParentID = &rootA.ID
	replyA2 := testComment("re: first again")
	replyA2.ParentID = &rootA.ID
	replyB1 := testComment("re: second")
	replyB1.ParentID = &rootB.ID

	threads := AssembleThreads(
		[]models.Comment{rootA, rootB},
		[]models.Comment{replyA1, replyB1, replyA2},
	)

	require.Len(t, threads, 2)
	assert.Equal(t, rootA.ID, threads[0].Comment.ID)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, "re: first", threads[0].Replies[0].Body)
	assert.Equal(t, "re: first again", threads[0].Replies[1].Body)

	require.Len(t, threads[1].Replies, 1)
	assert.Equal(t, "re: second", threads[1].Replies[0].Body)
}

func TestAssembleThreadsRootWithoutReplies(t *testing.T) {
	root := testComment("alone")

	threads := AssembleThreads([]models.Comment{root}, nil)
	require.Len(t, threads, 1)
	assert.Empty(t, threads[0].Replies)
}

func TestAssembleThreadsIgnoresOrphanReplies(t *testing.T) {
	root := testComment("root")
	orphanParent := uuid.New()
	orphan := testComment("orphan")
	orphan.ParentID = &orphanParent

	threads := AssembleThreads([]models.Comment{root}, []models.Comment{orphan})
	require.Len(t, threads, 1)
	assert.Empty(t, threads[0].Replies)
}

func TestFlagReasonBoundsMatchStorage(t *testing.T) {
	// The reasons column holds 500 characters; anything the validator
	// accepts must fit it.
	assert.NoError(t, utils.ValidateStruct(&FlagCommentRequest{Reason: strings.Repeat("x", 500)}))
	assert.Error(t, utils.ValidateStruct(&FlagCommentRequest{Reason: strings.Repeat("x", 501)}))
	assert.Error(t, utils.ValidateStruct(&FlagCommentRequest{Reason: "ab"}))
}
