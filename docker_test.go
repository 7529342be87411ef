package main_test

import (
	"os"
	"strings"
	"testing"
)

func readBuildFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("%s should exist: %v", path, err)
	}
	return string(data)
}

func TestDockerfile_BuildStages(t *testing.T) {
	content := readBuildFile(t, "Dockerfile")

	if !strings.Contains(content, "FROM golang:") {
		t.Error("Dockerfile should contain a Go builder stage (FROM golang:)")
	}

	// 最終ステージは軽量イメージであること
	var lastFrom string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "FROM ") {
			lastFrom = trimmed
		}
	}
	if !strings.Contains(lastFrom, "distroless") && !strings.Contains(lastFrom, "alpine") && !strings.Contains(lastFrom, "scratch") {
		t.Errorf("final stage should use a minimal base image, got: %s", lastFrom)
	}

	// distrolessで動かすため静的リンクでビルドする
	if !strings.Contains(content, "CGO_ENABLED=0") {
		t.Error("Dockerfile should build with CGO_ENABLED=0 for a static binary")
	}
}

func TestDockerfile_RunsFuelogBinary(t *testing.T) {
	content := readBuildFile(t, "Dockerfile")

	tests := []struct {
		name     string
		fragment string
	}{
		{"fuelogバイナリをビルドする", "fuelog"},
		{"ENTRYPOINTで起動する", "ENTRYPOINT"},
		{"デフォルトコマンドはserve", `CMD ["serve"]`},
		{"healthcheckサブコマンドで死活監視する", "HEALTHCHECK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(content, tt.fragment) {
				t.Errorf("Dockerfile should contain %q", tt.fragment)
			}
		})
	}
}

func TestDockerCompose_ThreeContainerLayout(t *testing.T) {
	content := readBuildFile(t, "docker-compose.yml")

	// api（HTTPサーバー）、worker（セッションクリーンアップ）、db（PostgreSQL）の3コンテナ構成
	for _, svc := range []string{"api:", "worker:", "db:"} {
		if !strings.Contains(content, svc) {
			t.Errorf("docker-compose.yml should contain service %q", svc)
		}
	}

	if !strings.Contains(content, "postgres:") {
		t.Error("docker-compose.yml should use a PostgreSQL image for db")
	}
	if !strings.Contains(content, "pg_isready") {
		t.Error("db service should have a pg_isready healthcheck")
	}
}

func TestDockerCompose_WorkerRunsWorkerSubcommand(t *testing.T) {
	content := readBuildFile(t, "docker-compose.yml")

	inWorker := false
	found := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "worker:" {
			inWorker = true
			continue
		}
		if inWorker && (trimmed == "db:" || trimmed == "api:") {
			break
		}
		if inWorker && strings.HasPrefix(trimmed, "command:") && strings.Contains(trimmed, "worker") {
			found = true
			break
		}
	}
	if !found {
		t.Error("worker service should start with the 'worker' subcommand")
	}
}

// Google OAuthのトークン交換はapiだけが行うため、外部通信を許可するのはapiのみ。
// worker/dbは内部ネットワークに閉じ込める。
func TestDockerCompose_EgressRestriction(t *testing.T) {
	content := readBuildFile(t, "docker-compose.yml")

	if !strings.Contains(content, "networks:") {
		t.Error("docker-compose.yml should define networks for egress control")
	}
	if !strings.Contains(content, "internal: true") {
		t.Error("docker-compose.yml should define an internal network (internal: true)")
	}
	if !strings.Contains(content, "external") {
		t.Error("docker-compose.yml should define an external network for api egress")
	}
}
