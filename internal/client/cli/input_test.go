package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	require.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	_, err := GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), pw)
	require.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword("Password", &out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected [][2]string
		wantErr  bool
	}{
		{
			name:     "single pair",
			args:     []string{"busca=obras"},
			expected: [][2]string{{"busca", "obras"}},
		},
		{
			name:     "empty value clears",
			args:     []string{"status="},
			expected: [][2]string{{"status", ""}},
		},
		{
			name:     "value keeps later equals signs",
			args:     []string{"busca=a=b"},
			expected: [][2]string{{"busca", "a=b"}},
		},
		{
			name:     "several pairs keep order",
			args:     []string{"status=ativo", "busca=x"},
			expected: [][2]string{{"status", "ativo"}, {"busca", "x"}},
		},
		{
			name:    "missing equals",
			args:    []string{"busca"},
			wantErr: true,
		},
		{
			name:    "missing name",
			args:    []string{"=x"},
			wantErr: true,
		},
		{
			name:    "no arguments",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAssignments(tc.args)
			if tc.wantErr {
				require.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
