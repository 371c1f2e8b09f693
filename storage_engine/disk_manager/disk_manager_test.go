package diskmanager

import (
	"bytes"
	"path/filepath"
	"testing"

	"BrambleDB/types"
)

func TestDiskManagerFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	dm := NewDiskManager(path, 128)
	if dm.PageNum() != 0 {
		t.Errorf("PageNum() = %d, want 0", dm.PageNum())
	}
	if dm.PageSize() != 128 {
		t.Errorf("PageSize() = %d, want 128", dm.PageSize())
	}
	dm.ShutDown()
}

// TestDiskManagerHeaderPersistence writes four pages, shuts down, and
// checks the reopened header counts them.
func TestDiskManagerHeaderPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	const pageSize = 20
	data := make([]byte, pageSize)
	copy(data, "abcdefghijklmnop")
	{
		dm := NewDiskManager(path, pageSize)
		dm.WritePage(0, data)
		dm.WritePage(1, data)
		dm.WritePage(2, data)
		dm.WritePage(3, data)
		dm.ShutDown()
	}
	{
		dm := NewDiskManager(path, pageSize)
		if dm.PageNum() != 4 {
			t.Errorf("PageNum() = %d, want 4", dm.PageNum())
		}
		got := make([]byte, pageSize)
		dm.ReadPage(0, got)
		if !bytes.Equal(got, data) {
			t.Errorf("page 0 = %q, want %q", got, data)
		}
		dm.ShutDown()
	}
}

func TestDiskManagerReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	const pageSize = 20
	data := make([]byte, pageSize)
	copy(data, "abcdefghijklmnop")
	{
		dm := NewDiskManager(path, pageSize)
		dm.WritePage(0, data)
		dm.ShutDown()
	}
	{
		dm := NewDiskManager(path, pageSize)
		got := make([]byte, pageSize)
		dm.ReadPage(0, got)
		if !bytes.Equal(got, data) {
			t.Errorf("read back %q, want %q", got, data)
		}
		dm.ShutDown()
	}
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	const pageSize = 32
	data := make([]byte, pageSize)
	// Stamp page ids the way the buffer pool does, at byte offset 4.
	dm := NewDiskManager(path, pageSize)
	for id := 0; id < 3; id++ {
		data[types.PageIDOffset] = byte(id)
		dm.WritePage(types.PageID(id), data)
	}
	dm.ShutDown()

	stat, err := StatFile(path)
	if err != nil {
		t.Fatalf("StatFile: %v", err)
	}
	if stat.PageSize != pageSize {
		t.Errorf("PageSize = %d, want %d", stat.PageSize, pageSize)
	}
	if stat.PageNum != 3 {
		t.Errorf("PageNum = %d, want 3", stat.PageNum)
	}
	for i, id := range stat.Pages {
		if int(id) != i {
			t.Errorf("page %d stored id = %d, want %d", i, id, i)
		}
	}
}

func TestStatFileMissing(t *testing.T) {
	if _, err := StatFile(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Errorf("StatFile on a missing file must return an error")
	}
}
