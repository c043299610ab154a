package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imds-capstone/backend/internal/session"
)

const (
	loginPath     = "/login"
	dashboardPath = "/"
	usernameKey   = "username"

	loginFailedMessage = "Invalid username or password."
)

type accessState int

const (
	stateAnonymous accessState = iota
	stateInvalid
	stateAuthenticated
)

// identify classifies the request by its session cookie.
func (s *Server) identify(c *gin.Context) (session.Identity, accessState) {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		return session.Identity{}, stateAnonymous
	}
	id, err := s.codec.Verify(token)
	if err != nil {
		return session.Identity{}, stateInvalid
	}
	return id, stateAuthenticated
}

// requireSession lets authenticated requests through and hands the rest to reject.
// Anonymous and invalid sessions are treated the same; an invalid cookie is also cleared.
func (s *Server) requireSession(reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, state := s.identify(c)
		if state != stateAuthenticated {
			if state == stateInvalid {
				logrus.WithField("path", c.Request.URL.Path).Info("rejecting invalid session cookie")
				s.clearSessionCookie(c)
			}
			reject(c)
			c.Abort()
			return
		}
		c.Set(usernameKey, id.Username)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, loginPath)
}

func rejectJSON(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
}

func (s *Server) handleLoginPage(c *gin.Context) {
	if _, state := s.identify(c); state == stateAuthenticated {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}
	s.renderPage(c, http.StatusOK, "login.tmpl", gin.H{"error": ""})
}

func (s *Server) handleLogin(c *gin.Context) {
	var form LoginForm
	_ = c.ShouldBind(&form)

	if !session.CheckCredentials(form.Username, form.Password, s.demoUsername, s.demoPassword) {
		s.metrics.observeLogin(false)
		logrus.WithField("remote", c.ClientIP()).Warn("login failed")
		s.renderPage(c, http.StatusUnauthorized, "login.tmpl", gin.H{"error": loginFailedMessage})
		return
	}

	token, err := s.codec.Issue(s.demoUsername)
	if err != nil {
		logrus.WithError(err).Error("issue session token")
		s.renderPage(c, http.StatusInternalServerError, "login.tmpl", gin.H{"error": "Could not start a session, please retry."})
		return
	}
	s.metrics.observeLogin(true)
	s.setSessionCookie(c, token)
	logrus.WithField("user", s.demoUsername).Info("login succeeded")
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (s *Server) handleLogout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(s.cookieSameSite)
	c.SetCookie(session.CookieName, token, int(session.MaxAge.Seconds()), "/", "", s.cookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(s.cookieSameSite)
	c.SetCookie(session.CookieName, "", -1, "/", "", s.cookieSecure, true)
}
