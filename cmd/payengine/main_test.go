package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quayside/payengine/internal/domain"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestRunProcess(t *testing.T) {
	input := strings.Join([]string{
		"type, client, tx, amount",
		"deposit, 1, 1, 10",
		"deposit, 2, 2, 20",
		"dispute, 1, 1,",
		"withdrawal, 1, 3, 5",
		"resolve, 1, 1,",
	}, "\n")

	var out bytes.Buffer
	if err := runProcess(writeFixture(t, input), &out, zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "client,available,held,total,locked\n" +
		"1,10,0,10,false\n" +
		"2,20,0,20,false\n"
	if out.String() != want {
		t.Fatalf("unexpected snapshot:\n%s", out.String())
	}
}

func TestRunProcess_ChargebackLocksAccount(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,100",
		"deposit,1,2,50",
		"dispute,1,2,",
		"chargeback,1,2,",
		"withdrawal,1,3,10",
	}, "\n")

	var out bytes.Buffer
	if err := runProcess(writeFixture(t, input), &out, zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The withdrawal after the chargeback is rejected: the account
	// is locked.
	want := "client,available,held,total,locked\n" +
		"1,100,0,100,true\n"
	if out.String() != want {
		t.Fatalf("unexpected snapshot:\n%s", out.String())
	}
}

func TestRunProcess_StructuralRejection(t *testing.T) {
	input := strings.Join([]string{
		"type,client,tx,amount",
		"deposit,1,1,10",
		"withdrawal,1,2,not-a-number",
	}, "\n")

	var out bytes.Buffer
	err := runProcess(writeFixture(t, input), &out, zerolog.Nop())

	if !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("rejected batch must produce no output, got:\n%s", out.String())
	}
}

func TestRunProcess_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runProcess(filepath.Join(t.TempDir(), "absent.csv"), &out, zerolog.Nop())

	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}

	if !names["process"] || !names["serve"] {
		t.Fatalf("expected process and serve commands, got %v", names)
	}
}
