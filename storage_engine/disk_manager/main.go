package diskmanager

import (
	"encoding/binary"
	"fmt"
	"os"

	"BrambleDB/logger"
	"BrambleDB/types"
)

/*
This is the main file for the disk manager.
It owns:
The OS file handle for a single db file
Reading/writing raw page bytes at fixed offsets (ReadAt, WriteAt)
The header page recording page_size and page_num

File structure: HeaderPage(16B) + Page * N, where page i lives at
offset 16 + i*page_size.

I/O here is synchronous and infallible from the caller's point of view:
any error is logged and terminates the process. Callers that get a
return at all may assume the bytes moved.
*/

// NewDiskManager opens the db file at filePath, creating it with a
// fresh header if it does not exist. For an existing file the header
// is read back and pageSize is ignored in favour of the recorded one.
func NewDiskManager(filePath string, pageSize uint64) *DiskManager {
	file, err := os.OpenFile(filePath, os.O_RDWR, 0644)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("can't open db file %s: %v", filePath, err)
		}
		file, err = os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			logger.Fatalf("can't create db file %s: %v", filePath, err)
		}
		dm := &DiskManager{filePath: filePath, file: file, header: fileHeader{pageSize: pageSize}}
		dm.writeHeader()
		return dm
	}
	dm := &DiskManager{filePath: filePath, file: file}
	dm.readHeader()
	return dm
}

// ShutDown rewrites the header page and closes the file.
func (dm *DiskManager) ShutDown() {
	dm.writeHeader()
	if err := dm.file.Close(); err != nil {
		logger.Fatalf("can't close db file %s: %v", dm.filePath, err)
	}
}

// ReadPage reads page pageID into data. Reading past the recorded end
// of file is fatal.
func (dm *DiskManager) ReadPage(pageID types.PageID, data []byte) {
	offset := types.DiskHeaderSize + uint64(pageID)*dm.header.pageSize
	if offset+dm.header.pageSize > dm.header.fileSize() {
		logger.Fatalf("read of page %d past end of db file %s", pageID, dm.filePath)
	}
	if _, err := dm.file.ReadAt(data[:dm.header.pageSize], int64(offset)); err != nil {
		logger.Fatalf("I/O error reading page %d from %s: %v", pageID, dm.filePath, err)
	}
}

// WritePage writes data as page pageID, flushes, and raises the
// in-memory page count to cover it. The header itself is only
// rewritten at ShutDown.
func (dm *DiskManager) WritePage(pageID types.PageID, data []byte) {
	offset := types.DiskHeaderSize + uint64(pageID)*dm.header.pageSize
	if _, err := dm.file.WriteAt(data[:dm.header.pageSize], int64(offset)); err != nil {
		logger.Fatalf("I/O error writing page %d to %s: %v", pageID, dm.filePath, err)
	}
	if err := dm.file.Sync(); err != nil {
		logger.Fatalf("I/O error syncing %s: %v", dm.filePath, err)
	}
	if uint64(pageID)+1 > dm.header.pageNum {
		dm.header.pageNum = uint64(pageID) + 1
	}
}

// PageSize returns the recorded bytes per page.
func (dm *DiskManager) PageSize() uint64 { return dm.header.pageSize }

// PageNum returns the recorded number of pages.
func (dm *DiskManager) PageNum() uint64 { return dm.header.pageNum }

func (dm *DiskManager) readHeader() {
	var buf [types.DiskHeaderSize]byte
	if _, err := dm.file.ReadAt(buf[:], 0); err != nil {
		logger.Fatalf("I/O error reading header of %s: %v", dm.filePath, err)
	}
	dm.header.pageSize = binary.LittleEndian.Uint64(buf[0:8])
	dm.header.pageNum = binary.LittleEndian.Uint64(buf[8:16])
}

func (dm *DiskManager) writeHeader() {
	var buf [types.DiskHeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], dm.header.pageSize)
	binary.LittleEndian.PutUint64(buf[8:16], dm.header.pageNum)
	if _, err := dm.file.WriteAt(buf[:], 0); err != nil {
		logger.Fatalf("I/O error writing header of %s: %v", dm.filePath, err)
	}
	if err := dm.file.Sync(); err != nil {
		logger.Fatalf("I/O error syncing %s: %v", dm.filePath, err)
	}
}

// StatFile reads a db file's header and page ids without going through
// a DiskManager, so a malformed file reports an error instead of
// killing the process.
func StatFile(path string) (*FileStat, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read db file: %w", err)
	}
	if len(raw) < types.DiskHeaderSize {
		return nil, fmt.Errorf("file %s too short for a header page (%d bytes)", path, len(raw))
	}
	stat := &FileStat{
		Path:     path,
		PageSize: binary.LittleEndian.Uint64(raw[0:8]),
		PageNum:  binary.LittleEndian.Uint64(raw[8:16]),
	}
	if stat.PageSize <= types.PageHeaderSize {
		return nil, fmt.Errorf("file %s records page size %d, leaving no content after the %d byte page header", path, stat.PageSize, types.PageHeaderSize)
	}
	for i := uint64(0); i < stat.PageNum; i++ {
		offset := types.DiskHeaderSize + i*stat.PageSize
		if offset+stat.PageSize > uint64(len(raw)) {
			return nil, fmt.Errorf("file %s truncated: page %d past end of file", path, i)
		}
		stat.Pages = append(stat.Pages, types.PageID(binary.LittleEndian.Uint32(raw[offset+types.PageIDOffset:])))
	}
	return stat, nil
}

// InspectFile prints a human-readable dump of a db file: header fields
// plus each page's stored id and a printable content preview.
func InspectFile(path string) error {
	stat, err := StatFile(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read db file: %w", err)
	}
	fmt.Printf("file: %s\n", stat.Path)
	fmt.Printf("page_size: %d\n", stat.PageSize)
	fmt.Printf("page_num:  %d\n", stat.PageNum)
	for i, id := range stat.Pages {
		offset := types.DiskHeaderSize + uint64(i)*stat.PageSize
		content := raw[offset+types.PageHeaderSize : offset+stat.PageSize]
		fmt.Printf("page %d: id=%d content=%q\n", i, id, previewBytes(content, 32))
	}
	return nil
}

// previewBytes trims trailing zeroes and caps the preview length.
func previewBytes(b []byte, max int) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	if end > max {
		end = max
	}
	return b[:end]
}
