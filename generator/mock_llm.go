package generator

import (
	"context"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt, params Params) (string, error) {
	// 把用户指令原样拼接成 Markdown。
	var sb strings.Builder
	sb.WriteString("# Conteúdo de exemplo\n\n")
	sb.WriteString("Texto gerado localmente pelo modelo ")
	sb.WriteString(params.Model)
	sb.WriteString(" (mock).\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
