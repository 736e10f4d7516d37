package input

import (
	"io"
	"testing"
)

func TestStringReader_ReadString(t *testing.T) {
	t.Run("single input", func(t *testing.T) {
		reader := NewStringReader("yes\n")
		result, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}
		if result != "yes\n" {
			t.Errorf("expected 'yes\\n', got '%s'", result)
		}
	})

	t.Run("multiple inputs", func(t *testing.T) {
		reader := NewStringReader("first\n", "second\n", "third\n")

		result1, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString for first failed: %v", err)
		}
		if result1 != "first\n" {
			t.Errorf("expected 'first\\n', got '%s'", result1)
		}

		result2, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString for second failed: %v", err)
		}
		if result2 != "second\n" {
			t.Errorf("expected 'second\\n', got '%s'", result2)
		}

		result3, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString for third failed: %v", err)
		}
		if result3 != "third\n" {
			t.Errorf("expected 'third\\n', got '%s'", result3)
		}
	})

	t.Run("EOF after all inputs consumed", func(t *testing.T) {
		reader := NewStringReader("yes\n")
		_, err := reader.ReadString('\n') // consume the input
		if err != nil {
			t.Fatalf("ReadString failed: %v", err)
		}

		result, err := reader.ReadString('\n')
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
		if result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})

	t.Run("EOF on empty reader", func(t *testing.T) {
		reader := NewStringReader()
		result, err := reader.ReadString('\n')
		if err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
		if result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})
}

func TestReadYesNo(t *testing.T) {
	tests := []struct {
		name       string
		inputs     []string
		defaultYes bool
		want       bool
		wantErr    bool
	}{
		{"empty line takes default yes", []string{"\n"}, true, true, false},
		{"empty line takes default no", []string{"\n"}, false, false, false},
		{"lower y", []string{"y\n"}, true, true, false},
		{"upper Y", []string{"Y\n"}, false, true, false},
		{"yes word", []string{"Yes\n"}, false, true, false},
		{"n", []string{"n\n"}, true, false, false},
		{"anything else is no", []string{"maybe\n"}, true, false, false},
		{"surrounding spaces", []string{"  y  \n"}, false, true, false},
		{"no trailing newline", []string{"y"}, false, true, false},
		{"EOF without input", nil, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &eofReader{inputs: tt.inputs}
			got, err := ReadYesNo(r, tt.defaultYes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadYesNo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadYesNo() = %v, want %v", got, tt.want)
			}
		})
	}
}

// eofReader behaves like bufio.Reader: a last line without delimiter comes
// back together with io.EOF.
type eofReader struct {
	inputs []string
	index  int
}

func (r *eofReader) ReadString(delim byte) (string, error) {
	if r.index >= len(r.inputs) {
		return "", io.EOF
	}
	s := r.inputs[r.index]
	r.index++
	if len(s) == 0 || s[len(s)-1] != delim {
		return s, io.EOF
	}
	return s, nil
}

func TestNewStdinReader(t *testing.T) {
	reader := NewStdinReader()
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
	if reader.reader == nil {
		t.Error("expected non-nil bufio.Reader")
	}
}
