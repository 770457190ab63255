package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type meResponse struct {
	UserName string `json:"username"`
}

type registerResponse struct {
	UserName string `json:"username"`
	UUID     string `json:"uuid"`
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, value, maxAge, "/", "", s.cookie.Secure, true)
}

// Register creates an account. It does not open a session.
func (s *Server) Register(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := s.auth.Register(c.Request.Context(), req.UserName, []byte(req.Password))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registerResponse{UserName: u.UserName, UUID: u.UUID})
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := s.auth.Login(c.Request.Context(), req.UserName, []byte(req.Password))
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.setSessionCookie(c, token, int(s.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, meResponse{UserName: req.UserName})
}

func (s *Server) Logout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	c.JSON(http.StatusOK, meResponse{UserName: userName(c)})
}
