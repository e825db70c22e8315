package wire

import (
	"testing"

	"devicerpc/pkg/errcode"
)

func TestFundamentalRoundTrip(t *testing.T) {
	out := NewOutputBuffer()
	if err := WriteInt32(out, -7); err != nil {
		t.Fatal(err)
	}
	if err := WriteUint32(out, 1<<31); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt64(out, -12345678901234); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat32(out, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat64(out, 2.71828); err != nil {
		t.Fatal(err)
	}
	if err := WriteBool(out, true); err != nil {
		t.Fatal(err)
	}
	if err := WriteBool(out, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteString(out, "hello"); err != nil {
		t.Fatal(err)
	}

	in := NewInputBuffer(out.Release())

	if v, err := ReadInt32(in); err != nil || v != -7 {
		t.Fatalf("ReadInt32 = %d, %v", v, err)
	}
	if v, err := ReadUint32(in); err != nil || v != 1<<31 {
		t.Fatalf("ReadUint32 = %d, %v", v, err)
	}
	if v, err := ReadInt64(in); err != nil || v != -12345678901234 {
		t.Fatalf("ReadInt64 = %d, %v", v, err)
	}
	if v, err := ReadFloat32(in); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat32 = %v, %v", v, err)
	}
	if v, err := ReadFloat64(in); err != nil || v != 2.71828 {
		t.Fatalf("ReadFloat64 = %v, %v", v, err)
	}
	if v, err := ReadBool(in); err != nil || v != true {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := ReadBool(in); err != nil || v != false {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := ReadString(in); err != nil || v != "hello" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
	if in.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", in.Remaining())
	}
}

func TestPositionalReadsDoNotCrossTalk(t *testing.T) {
	out := NewOutputBuffer()
	writes := []int32{1, 2, 3, 4, 5}
	for _, w := range writes {
		if err := WriteInt32(out, w); err != nil {
			t.Fatal(err)
		}
	}
	in := NewInputBuffer(out.Release())
	for _, want := range writes {
		got, err := ReadInt32(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestEmptySequenceAndFixedArray(t *testing.T) {
	out := NewOutputBuffer()
	if err := WriteSlice(out, []int32(nil), WriteInt32); err != nil {
		t.Fatal(err)
	}
	if err := WriteArray(out, []int32{}, WriteInt32); err != nil {
		t.Fatal(err)
	}

	in := NewInputBuffer(out.Release())
	seq, err := ReadSlice(in, ReadInt32)
	if err != nil || len(seq) != 0 {
		t.Fatalf("ReadSlice = %v, %v", seq, err)
	}
	arr, err := ReadArray(in, 0, ReadInt32)
	if err != nil || len(arr) != 0 {
		t.Fatalf("ReadArray = %v, %v", arr, err)
	}
}

func TestFixedArrayLengthMismatchIsBadMessage(t *testing.T) {
	out := NewOutputBuffer()
	if err := WriteArray(out, []int32{1, 2, 3}, WriteInt32); err != nil {
		t.Fatal(err)
	}
	in := NewInputBuffer(out.Release())
	if _, err := ReadArray(in, 4, ReadInt32); errcode.CodeOf(err) != errcode.BadMessage {
		t.Fatalf("expected bad message, got %v", err)
	}
}

func TestInputBufferOverrun(t *testing.T) {
	in := NewInputBuffer([]byte{1, 2})
	if _, err := in.Read(3); err == nil {
		t.Fatal("expected overrun error")
	}
}

func TestOutputBufferWriteAfterRelease(t *testing.T) {
	out := NewOutputBuffer()
	out.Release()
	if err := out.Write([]byte{1}); err == nil {
		t.Fatal("expected error writing to released buffer")
	}
}

func TestWriteSliceRoundTrip(t *testing.T) {
	out := NewOutputBuffer()
	values := []int32{10, 20, 30, 40}
	if err := WriteSlice(out, values, WriteInt32); err != nil {
		t.Fatal(err)
	}
	in := NewInputBuffer(out.Release())
	got, err := ReadSlice(in, ReadInt32)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d elements, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("element %d: got %d, want %d", i, got[i], values[i])
		}
	}
}
