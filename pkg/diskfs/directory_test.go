// file: pkg/diskfs/directory_test.go

package diskfs

import "testing"

func TestDirectoryAddFindRemove(t *testing.T) {
	d := NewDirectory()
	if err := d.Add("foo", 10, KindFile); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := d.Find("foo"); got != 10 {
		t.Errorf("Find(foo) = %d, want 10", got)
	}
	if err := d.Add("foo", 11, KindFile); err != ErrNameExists {
		t.Errorf("Add duplicate = %v, want ErrNameExists", err)
	}
	if err := d.Remove("foo"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := d.Find("foo"); got != -1 {
		t.Errorf("Find(foo) after Remove = %d, want -1", got)
	}
	if err := d.Remove("foo"); err != ErrNotFound {
		t.Errorf("Remove again = %v, want ErrNotFound", err)
	}
}

func TestDirectoryAddReusesFreedSlot(t *testing.T) {
	d := NewDirectory()
	d.Add("a", 1, KindFile)
	d.Add("b", 2, KindFile)
	d.Remove("a")
	if err := d.Add("c", 3, KindFile); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := len(d.table); got != 2 {
		t.Errorf("table length = %d, want 2 (c should reuse a's freed slot)", got)
	}
}

func TestDirectoryFindDirOnlyMatchesDirectories(t *testing.T) {
	d := NewDirectory()
	d.Add("f", 1, KindFile)
	d.Add("sub", 2, KindDirectory)

	if got := d.FindDir("f"); got != -1 {
		t.Errorf("FindDir(f) = %d, want -1", got)
	}
	if got := d.FindDir("sub"); got != 2 {
		t.Errorf("FindDir(sub) = %d, want 2", got)
	}
}

func TestDirectoryRename(t *testing.T) {
	d := NewDirectory()
	d.Add("old", 5, KindFile)
	d.Add("taken", 6, KindFile)
	d.Add("dir", 7, KindDirectory)

	if err := d.Rename("missing", "x"); err != ErrNotFound {
		t.Errorf("Rename(missing) = %v, want ErrNotFound", err)
	}
	if err := d.Rename("dir", "x"); err != ErrWrongKind {
		t.Errorf("Rename(dir) = %v, want ErrWrongKind", err)
	}
	if err := d.Rename("old", "taken"); err != ErrNameExists {
		t.Errorf("Rename(old, taken) = %v, want ErrNameExists", err)
	}
	if err := d.Rename("old", "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got := d.Find("new"); got != 5 {
		t.Errorf("Find(new) = %d, want 5", got)
	}
}

func TestDirectoryNameTooLong(t *testing.T) {
	d := NewDirectory()
	longName := "thisnameiswaytoolong"
	if err := d.Add(longName, 1, KindFile); err != ErrNameTooLong {
		t.Errorf("Add(long name) = %v, want ErrNameTooLong", err)
	}
}

func TestDirectoryRoundTrip(t *testing.T) {
	d := NewDirectory()
	d.Sector = 1
	d.Parent = -1
	d.Child = 42
	d.Add("alpha", 10, KindFile)
	d.Add("beta", 11, KindDirectory)
	d.Add("gamma", 12, KindFile)
	d.Remove("beta")

	data, err := d.toBytes(4096)
	if err != nil {
		t.Fatalf("toBytes: %v", err)
	}

	got, err := directoryFromBytes(data)
	if err != nil {
		t.Fatalf("directoryFromBytes: %v", err)
	}
	if got.Sector != d.Sector || got.Parent != d.Parent || got.Child != d.Child {
		t.Errorf("navigation fields = %+v, want sector=%d parent=%d child=%d", got, d.Sector, d.Parent, d.Child)
	}
	if got.Find("alpha") != 10 {
		t.Errorf("Find(alpha) after round trip = %d, want 10", got.Find("alpha"))
	}
	if got.Find("beta") != -1 {
		t.Error("beta should still be recorded as not in use after round trip")
	}
	if got.Find("gamma") != 12 {
		t.Errorf("Find(gamma) after round trip = %d, want 12", got.Find("gamma"))
	}
}
