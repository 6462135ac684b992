package service

import "time"

const (
	// GenerateTimeout bounds one LLM call, matching what the browser will
	// realistically wait for.
	GenerateTimeout = 2 * time.Minute

	// SideEffectTimeout bounds cache and history writes after generation.
	SideEffectTimeout = 5 * time.Second
)
