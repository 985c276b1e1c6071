package response

import (
	"net/http"

	"campuslink.cn/community/internal/model"
	"campuslink.cn/community/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CurrentUserKey is where the auth middleware parks the resolved caller.
const CurrentUserKey = "current_user"

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	user, err := GetCurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// GetCurrentUser retrieves the authenticated caller loaded by the middleware
func GetCurrentUser(c *gin.Context) (*model.User, error) {
	val, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}
	user, ok := val.(*model.User)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		logrus.WithError(err).Error("internal error")
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
