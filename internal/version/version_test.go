// Copyright (c) 2017-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"testing"
)

// TestParseSemVer ensures semantic version strings are split into their
// components and malformed strings are rejected.
func TestParseSemVer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		str       string
		wantMajor uint
		wantMinor uint
		wantPatch uint
		wantPre   string
		wantBuild string
		wantErr   bool
	}{{
		name:      "plain",
		str:       "1.0.0",
		wantMajor: 1,
	}, {
		name:      "pre-release",
		str:       "1.2.3-pre",
		wantMajor: 1,
		wantMinor: 2,
		wantPatch: 3,
		wantPre:   "pre",
	}, {
		name:      "pre-release and build metadata",
		str:       "10.20.30-rc.1+release.local",
		wantMajor: 10,
		wantMinor: 20,
		wantPatch: 30,
		wantPre:   "rc.1",
		wantBuild: "release.local",
	}, {
		name:    "leading zero",
		str:     "01.0.0",
		wantErr: true,
	}, {
		name:    "missing patch",
		str:     "1.0",
		wantErr: true,
	}, {
		name:    "invalid pre-release character",
		str:     "1.0.0-pre_1",
		wantErr: true,
	}, {
		name:    "empty build metadata",
		str:     "1.0.0+",
		wantErr: true,
	}, {
		name:    "overflowing major",
		str:     "99999999999999999999999.0.0",
		wantErr: true,
	}}

	for _, test := range tests {
		major, minor, patch, pre, build, err := parseSemVer(test.str)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: unexpected err: %v", test.name, err)
			continue
		}
		if test.wantErr {
			continue
		}
		if major != test.wantMajor || minor != test.wantMinor ||
			patch != test.wantPatch || pre != test.wantPre ||
			build != test.wantBuild {

			t.Errorf("%s: got %d.%d.%d-%s+%s", test.name, major, minor, patch,
				pre, build)
		}
	}
}

// TestString ensures the version string parses back to the package
// components.
func TestString(t *testing.T) {
	major, minor, patch, pre, build, err := parseSemVer(String())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if major != Major || minor != Minor || patch != Patch ||
		pre != PreRelease || build != BuildMetadata {

		t.Fatalf("version %q does not match components %d.%d.%d-%s+%s",
			String(), Major, Minor, Patch, PreRelease, BuildMetadata)
	}
}
