package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/forms"
	"github.com/five82/shelf/internal/nav"
)

const (
	msgLoginFailed  = "Failed to log in. Please try again."
	msgSignupFailed = "Failed to create account. Please try again."
)

// submitLogin validates the login form and, if valid, signs in.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.login.loading {
		return m, nil
	}
	values := m.login.loginValues()
	if err := forms.ValidateLogin(values); err != nil {
		m.login.err = err.Error()
		return m, nil
	}
	m.login.err = ""
	m.login.loading = true
	return m, m.signInCmd(values.Email, values.Password)
}

func (m Model) handleSignInDone(msg signInDoneMsg) (tea.Model, tea.Cmd) {
	m.login.loading = false
	if msg.err != nil {
		m.log.Info("sign-in failed", zap.Error(msg.err))
		m.login.err = catalog.Message(msg.err, msgLoginFailed)
		return m, nil
	}
	if err := m.session.SignedIn(msg.result.ID, msg.result.Token, msg.result.Role); err != nil {
		m.log.Warn("sign-in rejected", zap.String("role", msg.result.Role), zap.Error(err))
		m.login.err = msgLoginFailed
		return m, nil
	}
	m.login.reset()
	m.showToast("Logged in successfully", false)
	return m.navigate(nav.RouteHome)
}

// submitSignup validates the signup form and, if valid, registers.
func (m Model) submitSignup() (tea.Model, tea.Cmd) {
	if m.signup.loading {
		return m, nil
	}
	values := m.signup.signupValues()
	if err := forms.ValidateSignUp(values); err != nil {
		m.signup.err = err.Error()
		return m, nil
	}
	m.signup.err = ""
	m.signup.loading = true
	return m, m.signUpCmd(values.Input())
}

func (m Model) handleSignUpDone(msg signUpDoneMsg) (tea.Model, tea.Cmd) {
	m.signup.loading = false
	if msg.err != nil {
		m.log.Info("sign-up failed", zap.Error(msg.err))
		m.signup.err = catalog.Message(msg.err, msgSignupFailed)
		return m, nil
	}
	m.signup.reset()
	m.showToast("Account created. Please log in.", false)
	return m.navigate(nav.RouteLogin)
}

// logout clears the session and re-checks the current route.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.session.SignOut(); err != nil {
		m.log.Warn("sign-out not persisted", zap.Error(err))
	}
	m.showToast("Logged out", false)
	return m.navigate(nav.RouteHome)
}

func (m Model) renderLogin() string {
	return m.renderTitledBox("Log In", m.renderTextForm(m.login, "Log In", "No account? Press esc for Home, then 4 for Sign Up."), m.width, m.contentHeight())
}

func (m Model) renderSignup() string {
	return m.renderTitledBox("Sign Up", m.renderTextForm(m.signup, "Sign Up", "Already registered? Log in after signing up."), m.width, m.contentHeight())
}

// renderTextForm lays out labels and inputs, the error line and the submit state.
func (m Model) renderTextForm(f textForm, action, hint string) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	var b strings.Builder
	for i, in := range f.inputs {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText
		}
		b.WriteString(labelStyle.Render(padRight(f.labels[i], 10)))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	if f.loading {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Submitting..."))
	} else {
		b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(": "+action))
	}
	if hint != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(hint))
	}
	return b.String()
}
