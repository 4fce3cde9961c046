package tui

import (
	gloss "github.com/charmbracelet/lipgloss"
)

const (
	accent = gloss.Color("#89b4fa")
	muted  = gloss.Color("#585b70")
	text   = gloss.Color("#cdd6f4")
	warn   = gloss.Color("#f38ba8")
	gold   = gloss.Color("#f9e2af")
)

var (
	ActiveTabStyle = gloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Padding(1, 3, 0, 3)

	InactiveTabStyle = gloss.NewStyle().
				Foreground(muted).
				Padding(1, 3, 0, 3)

	ListStyle = gloss.NewStyle().
			Padding(1, 2)

	SelectedTitleStyle = gloss.NewStyle().
				Foreground(accent).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accent).
				PaddingLeft(1).
				Bold(true)

	SelectedDescStyle = gloss.NewStyle().
				Foreground(text).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(accent).
				PaddingLeft(1)

	NormalTitleStyle = gloss.NewStyle().
				Foreground(text).
				PaddingLeft(2)

	NormalDescStyle = gloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2)

	TagStyle = gloss.NewStyle().
			Foreground(gold)

	BadgeStyle = gloss.NewStyle().
			Foreground(gloss.Color("#1e1e2e")).
			Background(accent).
			Padding(0, 1)

	FilterStyle = gloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2)

	StatusStyle = gloss.NewStyle().
			Foreground(accent).
			PaddingLeft(2)

	ErrorStyle = gloss.NewStyle().
			Foreground(warn).
			PaddingLeft(2)

	HelpStyle = gloss.NewStyle().
			Foreground(muted).
			PaddingLeft(2).
			PaddingTop(1)

	PromptStyle = gloss.NewStyle().
			Foreground(accent).
			PaddingLeft(2).
			Bold(true)
)
