package prefabs

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path   string
		want   ChangeKind
		wantOK bool
	}{
		{path: "prefabs/stack.yaml", want: ChangeStack, wantOK: true},
		{path: "prefabs/STACK.YAML", want: ChangeStack, wantOK: true},
		{path: "prefabs/player.yaml", want: ChangeOther, wantOK: true},
		{path: "prefabs/level.yml", want: ChangeOther, wantOK: true},
		{path: "prefabs/scripts/hud.tengo", want: ChangeScript, wantOK: true},
		{path: "prefabs/stack.yaml~", wantOK: false},
		{path: "prefabs/notes.txt", wantOK: false},
	}
	for _, tc := range tests {
		got, ok := Classify(tc.path)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Fatalf("Classify(%q) = %v, %v; want %v, %v", tc.path, got, ok, tc.want, tc.wantOK)
		}
	}
}
