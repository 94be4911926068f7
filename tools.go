//go:build tools

// Package tools declares tool dependencies to keep them in go.mod.
// Each of these is also imported directly by packages under internal/.
package tools

import (
	_ "github.com/BurntSushi/toml"
	_ "github.com/charmbracelet/huh"
	_ "github.com/charmbracelet/lipgloss"
	_ "github.com/charmbracelet/log"
	_ "github.com/spf13/cobra"
	_ "github.com/stretchr/testify/assert"
	_ "golang.org/x/sync/errgroup"
)
