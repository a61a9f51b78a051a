package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formPage(literal string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><title>Form</title></head>
<body><script type="text/javascript">var FB_PUBLIC_LOAD_DATA_ = %s;</script></body></html>`, literal)
}

func TestLocate_InScriptTag(t *testing.T) {
	html := formPage(`[null,[null,[[123,"Q1"]]]]`)

	blob, ok := Locate(html)
	require.True(t, ok)
	assert.Equal(t, `[null,[null,[[123,"Q1"]]]]`, blob)
}

func TestLocate_MarkerAbsent(t *testing.T) {
	_, ok := Locate(`<html><body><p>Not a form</p></body></html>`)
	assert.False(t, ok)
}

func TestLocate_RawTextFallback(t *testing.T) {
	// Not valid HTML at all; the scanner still finds the assignment.
	raw := `garbage var FB_PUBLIC_LOAD_DATA_ = [1,[2,3]]; trailing`

	blob, ok := Locate(raw)
	require.True(t, ok)
	assert.Equal(t, `[1,[2,3]]`, blob)
}

func TestLocate_SemicolonInsideString(t *testing.T) {
	html := formPage(`[null,[null,[[1,"wait; more",null,1]]],"x;y"]`)

	blob, ok := Locate(html)
	require.True(t, ok)
	assert.Equal(t, `[null,[null,[[1,"wait; more",null,1]]],"x;y"]`, blob)
}

func TestLocate_EscapedQuoteInsideString(t *testing.T) {
	html := formPage(`["a \"quoted; thing\"",2]`)

	blob, ok := Locate(html)
	require.True(t, ok)
	assert.Equal(t, `["a \"quoted; thing\"",2]`, blob)
}

func TestLocate_NestedArraysDoNotTerminateEarly(t *testing.T) {
	literal := `[[[[1,2],[3,4]],[5]],null]`
	blob, ok := Locate(formPage(literal))
	require.True(t, ok)
	assert.Equal(t, literal, blob)
}

func TestLocate_UnterminatedLiteral(t *testing.T) {
	_, ok := Locate(`var FB_PUBLIC_LOAD_DATA_ = [1,2,[3`)
	assert.False(t, ok)
}

func TestRepair_IdempotentOnValidText(t *testing.T) {
	valid := []string{
		`[null,[null,[[123,"Q1",null,1]]]]`,
		`{"a":1,"b":[2,3]}`,
		`["a string with \\n escape"]`,
		`[]`,
	}
	for _, v := range valid {
		assert.Equal(t, v, Repair(v), "repair must be a no-op on valid text")
		assert.Equal(t, Repair(v), Repair(Repair(v)), "repair must be idempotent")
	}
}

func TestRepair_EscapesBareNewlines(t *testing.T) {
	assert.Equal(t, `["line one\nline two"]`, Repair("[\"line one\nline two\"]"))
	assert.Equal(t, `["a\r"]`, Repair("[\"a\r\"]"))
}

func TestRepair_SkipsAlreadyEscapedBreaks(t *testing.T) {
	// A backslash immediately before the raw newline marks it as escaped.
	in := "[\"a\\\nb\"]"
	assert.Equal(t, in, Repair(in))
}

func TestRepair_StripsTrailingCommas(t *testing.T) {
	assert.Equal(t, `[1,2]`, Repair(`[1,2,]`))
	assert.Equal(t, `{"a":1}`, Repair(`{"a":1,}`))
	assert.Equal(t, `[1, 2 ]`, Repair(`[1, 2, ]`))
	// Commas between elements survive.
	assert.Equal(t, `[1,2,3]`, Repair(`[1,2,3]`))
}

func TestRepair_CommaInsideStringPreserved(t *testing.T) {
	// A comma-bracket pair inside a string value is data, not a trailing comma.
	cases := []string{
		`["a,]"]`,
		`["a, ]"]`,
		`{"k":"x,}"}`,
		`["quote \" then a,]"]`,
	}
	for _, in := range cases {
		assert.Equal(t, in, Repair(in))
	}
}

func TestRepair_Idempotence(t *testing.T) {
	broken := "[\"a\nb\",1,]"
	once := Repair(broken)
	assert.Equal(t, once, Repair(once))
}

func TestParse_ValidLiteral(t *testing.T) {
	root, err := Parse(`[null,[null,[[123,"Q1",null,1]]]]`)
	require.NoError(t, err)
	require.Len(t, root, 2)
}

func TestParse_RepairsBrokenLiteral(t *testing.T) {
	root, err := Parse("[\"line one\nline two\",1,]")
	require.NoError(t, err)
	require.Len(t, root, 2)
	assert.Equal(t, "line one\nline two", root[0])
}

func TestParse_BothAttemptsFail(t *testing.T) {
	_, err := Parse(`[1,2,"unclosed`)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.NotEmpty(t, parseErr.Context)
}

func TestParse_ContextIsBounded(t *testing.T) {
	long := "[" + string(make([]byte, 2000))
	_, err := Parse(long)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.LessOrEqual(t, len(parseErr.Context), maxErrContext+3)
}
