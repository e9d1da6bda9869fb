package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{`inv<oi>ce:2024"q1`, "inv_oi_ce_2024_q1"},
		{`a/b\c|d?e*f`, "a_b_c_d_e_f"},
		{"  spaced   out  name ", "spaced_out_name"},
		{"__already__underscored__", "already_underscored"},
		{"María Ñoño", "maria_nono"},
		{"José Ángel Pérez", "jose_angel_perez"},
		{"MixedCASE Name", "mixedcase_name"},
		{"", ""},
		{"___", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeFilenameDeterministic(t *testing.T) {
	in := "María Ñoño / Q1 <final>"
	first := SanitizeFilename(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, SanitizeFilename(in))
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	require.Len(t, SanitizeFilename(long), 100)
}

func TestFoldDiacritics(t *testing.T) {
	require.Equal(t, "Maria Nono", FoldDiacritics("María Ñoño"))
	require.Equal(t, "uber", FoldDiacritics("über"))
	require.Equal(t, "plain", FoldDiacritics("plain"))
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()
	require.NotEqual(t, a, b)
	require.Len(t, a, 36)
}
