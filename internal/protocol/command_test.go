package protocol

import "testing"

func TestCommandStringKnown(t *testing.T) {
	if got := CmdGetIdn.String(); got != "GET_IDN" {
		t.Errorf("String() = %q, want GET_IDN", got)
	}
}

func TestCommandStringUnknown(t *testing.T) {
	c := Command(0x99)
	got := c.String()
	want := "UNKNOWN(0x99)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
