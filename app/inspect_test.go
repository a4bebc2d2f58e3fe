package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/app/persistence"
	"taskboard/app/services"
)

func TestShowCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "data_tasks.csv")
	content := persistence.Header + "\na1;First;x;1;10\nb2;Second;;2;20\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write err=%v", err)
	}

	var out bytes.Buffer
	cmd := showCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--data-file", path, "b2"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("show err=%v, want nil", err)
	}

	want := `{"id":"b2","titulo":"Second","descricao":"","status":2,"criadoEm":20}`
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("show output=%s, want %s", got, want)
	}

	cmd = showCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--data-file", path, "zz"})
	if err := cmd.ExecuteContext(context.Background()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("show unknown err=%v, want %v", err, services.ErrNotFound)
	}
}
