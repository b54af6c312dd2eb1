package viewer

import (
	"errors"
	"os/exec"
	"testing"

	"splitmark/internal/domain"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		page    domain.PageDescriptor
		size    domain.SizeClass
		wantURL string
		wantErr bool
	}{
		{
			name:    "image service thumbnail",
			page:    domain.PageDescriptor{ResourceID: "http://img/0.jpg", ServiceID: "http://iiif/p0"},
			size:    domain.SizeThumbnail,
			wantURL: "http://iiif/p0/full/!400,400/0/default.jpg",
		},
		{
			name:    "image service full",
			page:    domain.PageDescriptor{ResourceID: "http://img/0.jpg", ServiceID: "http://iiif/p0"},
			size:    domain.SizeFull,
			wantURL: "http://iiif/p0/full/full/0/default.jpg",
		},
		{
			name:    "direct resource",
			page:    domain.PageDescriptor{ResourceID: "https://img.example/1.jpg"},
			size:    domain.SizeMedium,
			wantURL: "https://img.example/1.jpg",
		},
		{
			name:    "no image",
			page:    domain.PageDescriptor{Index: 3},
			wantErr: true,
		},
		{
			name:    "relative resource",
			page:    domain.PageDescriptor{ResourceID: "img/1.jpg"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.page, tt.size)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantURL {
				t.Errorf("BuildURL = %q, want %q", got, tt.wantURL)
			}
		})
	}
}

func TestOpen_PlatformCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantArgs []string
	}{
		{goos: "darwin", wantArgs: []string{"open", "http://img/0.jpg"}},
		{goos: "linux", wantArgs: []string{"xdg-open", "http://img/0.jpg"}},
		{goos: "windows", wantArgs: []string{"cmd", "/c", "start", "", "http://img/0.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var got []string
			o := &Opener{goos: tt.goos, run: func(cmd *exec.Cmd) error {
				got = cmd.Args
				return nil
			}}

			if err := o.Open(domain.PageDescriptor{ResourceID: "http://img/0.jpg"}, domain.SizeFull); err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if len(got) != len(tt.wantArgs) {
				t.Fatalf("args = %q, want %q", got, tt.wantArgs)
			}
			for i := range got {
				if got[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, got[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	page := domain.PageDescriptor{ResourceID: "http://img/0.jpg"}

	unsupported := &Opener{goos: "plan9", run: func(*exec.Cmd) error { return nil }}
	if err := unsupported.Open(page, domain.SizeFull); err == nil {
		t.Error("expected error for unsupported platform")
	}

	failing := &Opener{goos: "linux", run: func(*exec.Cmd) error { return errors.New("no handler") }}
	if err := failing.Open(page, domain.SizeFull); err == nil {
		t.Error("expected error when the handler fails")
	}
}
