package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		op      string
		payload string
	}{
		{"op with id", "deletetask_42", "deletetask", "42"},
		{"op only", "refresh", "refresh", ""},
		{"payload keeps extra separators", "updatetask_42_draft", "updatetask", "42_draft"},
		{"marker prefix tolerated", "\\fcompletetask_7", "completetask", "7"},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			if op != tc.op || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", op, payload, tc.op, tc.payload)
			}
		})
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	op, payload := ParseCallbackData(nil)
	if op != "" || payload != "" {
		t.Fatalf("got (%q, %q), want empty", op, payload)
	}
}
