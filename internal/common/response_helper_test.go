package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseErrUnwrapsBusinessError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("保存失败: %w", NewBusinessErrorWithCode(CodeDuplicateConfiguration))
	ResponseErr(c, err)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CodeDuplicateConfiguration, resp.Code)
	assert.Equal(t, ErrorMessages[CodeDuplicateConfiguration], resp.Message)
}

func TestResponseErrPlainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ResponseErr(c, fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListResponsePages(t *testing.T) {
	resp := NewListResponse([]int{1}, 2, 20, 41)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 20, PaginationRequest{Page: 2}.GetOffset())
	assert.Equal(t, 100, PaginationRequest{PageSize: 500}.GetPageSize())
}

func TestBusinessErrorIsMatchesCode(t *testing.T) {
	sentinel := NewBusinessErrorWithCode(CodeInvalidApproverGroup)
	custom := NewBusinessError(CodeInvalidApproverGroup, "非会签/或签时，审批人的长度只能为1")

	assert.ErrorIs(t, fmt.Errorf("保存失败: %w", custom), sentinel)
	assert.NotErrorIs(t, custom, NewBusinessErrorWithCode(CodeActionDenied))
}
