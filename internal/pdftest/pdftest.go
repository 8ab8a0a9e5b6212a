// Package pdftest builds small PDF files in memory for tests.
//
// Objects are added by number with their body written in PDF syntax; the
// builder computes byte offsets and emits either a classic xref table or a
// compressed cross-reference stream.
//
//	data := pdftest.New().
//		Add(1, "<< /Type /Catalog /Outlines 2 0 R >>").
//		Add(2, "<< /Type /Outlines >>").
//		Trailer("/Root 1 0 R").
//		Bytes()
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Builder accumulates objects for a test PDF.
type Builder struct {
	version string
	objects map[int]string
	trailer string
}

// New returns a builder for a PDF 1.7 file with no objects.
func New() *Builder {
	return &Builder{version: "1.7", objects: make(map[int]string)}
}

// Version sets the header version, e.g. "1.4".
func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// Add sets the body of object num, generation 0.
func (b *Builder) Add(num int, body string) *Builder {
	b.objects[num] = body
	return b
}

// Trailer sets extra trailer entries, e.g. "/Root 1 0 R". /Size, and /Prev
// for updates, are written by the builder.
func (b *Builder) Trailer(entries string) *Builder {
	b.trailer = entries
	return b
}

func (b *Builder) numbers() []int {
	nums := make([]int, 0, len(b.objects))
	for n := range b.objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

func (b *Builder) size() int {
	nums := b.numbers()
	if len(nums) == 0 {
		return 1
	}
	return nums[len(nums)-1] + 1
}

func writeObject(buf *bytes.Buffer, num int, body string) {
	fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

// Bytes returns the file with a classic xref table.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.version)

	offsets := make(map[int]int)
	for _, num := range b.numbers() {
		offsets[num] = buf.Len()
		writeObject(&buf, num, b.objects[num])
	}

	size := b.size()
	startxref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	for num := 0; num < size; num++ {
		if off, ok := offsets[num]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d %s >>\nstartxref\n%d\n%%%%EOF\n", size, b.trailer, startxref)
	return buf.Bytes()
}

// Update returns base followed by an incremental update holding the
// builder's objects. The update's trailer points back at base through /Prev.
func (b *Builder) Update(base []byte) []byte {
	prev := StartXRef(base)

	buf := bytes.NewBuffer(append([]byte(nil), base...))
	offsets := make(map[int]int)
	for _, num := range b.numbers() {
		offsets[num] = buf.Len()
		writeObject(buf, num, b.objects[num])
	}

	startxref := buf.Len()
	buf.WriteString("xref\n")
	for _, num := range b.numbers() {
		fmt.Fprintf(buf, "%d 1\n%010d 00000 n \n", num, offsets[num])
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Prev %d %s >>\nstartxref\n%d\n%%%%EOF\n", b.size(), prev, b.trailer, startxref)
	return buf.Bytes()
}

// XRefStreamBytes returns the file with a cross-reference stream. Objects
// listed in compressed are stored in a single object stream. The object
// stream and xref stream take the next two free object numbers.
func (b *Builder) XRefStreamBytes(compressed ...int) []byte {
	inStream := make(map[int]int) // object number -> index
	for i, num := range compressed {
		inStream[num] = i
	}

	size := b.size()
	objStmNum := size
	xrefNum := size + 1
	if len(compressed) == 0 {
		xrefNum = size
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.version)

	offsets := make(map[int]int)
	for _, num := range b.numbers() {
		if _, ok := inStream[num]; ok {
			continue
		}
		offsets[num] = buf.Len()
		writeObject(&buf, num, b.objects[num])
	}

	if len(compressed) > 0 {
		var header, body strings.Builder
		for _, num := range compressed {
			fmt.Fprintf(&header, "%d %d ", num, body.Len())
			body.WriteString(b.objects[num])
			body.WriteString("\n")
		}
		data := Deflate([]byte(header.String() + body.String()))

		offsets[objStmNum] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /ObjStm /N %d /First %d /Filter /FlateDecode /Length %d >>\nstream\n",
			objStmNum, len(compressed), header.Len(), len(data))
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	xrefOffset := buf.Len()
	offsets[xrefNum] = xrefOffset
	total := xrefNum + 1

	// W [1 4 2], PNG Up predictor over 7-byte rows
	var rows bytes.Buffer
	prev := make([]byte, 7)
	for num := 0; num < total; num++ {
		row := make([]byte, 7)
		switch idx, ok := inStream[num]; {
		case ok:
			row[0] = 2
			putUint(row[1:5], objStmNum)
			putUint(row[5:7], idx)
		case offsets[num] > 0:
			row[0] = 1
			putUint(row[1:5], offsets[num])
		default:
			putUint(row[5:7], 0xFFFF)
		}
		rows.WriteByte(2)
		for i := range row {
			rows.WriteByte(row[i] - prev[i])
		}
		prev = row
	}
	data := Deflate(rows.Bytes())

	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] %s /Filter /FlateDecode /DecodeParms << /Predictor 12 /Columns 7 >> /Length %d >>\nstream\n",
		xrefNum, total, b.trailer, len(data))
	buf.Write(data)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes()
}

func putUint(dst []byte, v int) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

// Deflate compresses data with zlib.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// StartXRef returns the offset recorded after the last "startxref" in
// data, or -1.
func StartXRef(data []byte) int {
	idx := bytes.LastIndex(data, []byte("startxref"))
	if idx < 0 {
		return -1
	}
	fields := strings.Fields(string(data[idx+len("startxref"):]))
	if len(fields) == 0 {
		return -1
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return -1
	}
	return n
}

// UTF16 returns s as a PDF hex string holding UTF-16BE with a byte order
// mark, e.g. "<FEFF0041>".
func UTF16(s string) string {
	var sb strings.Builder
	sb.WriteString("<FEFF")
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			fmt.Fprintf(&sb, "%04X%04X", 0xD800+(r>>10), 0xDC00+(r&0x3FF))
			continue
		}
		fmt.Fprintf(&sb, "%04X", r)
	}
	sb.WriteString(">")
	return sb.String()
}
