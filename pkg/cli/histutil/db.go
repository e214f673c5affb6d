package histutil

import (
	"github.com/usemam/ledger/pkg/store/storedefs"
)

// DB is the interface of the storage database.
type DB interface {
	NextCmdSeq() (int, error)
	AddCmd(cmd string) (int, error)
	CmdsWithSeq(from, upto int) ([]storedefs.Cmd, error)
}

// TestDB is an implementation of the DB interface that can be used for testing.
type TestDB struct {
	AllCmds []string

	OneOffError error
}

func (s *TestDB) error() error {
	err := s.OneOffError
	s.OneOffError = nil
	return err
}

func (s *TestDB) NextCmdSeq() (int, error) {
	return len(s.AllCmds), s.error()
}

func (s *TestDB) AddCmd(cmd string) (int, error) {
	if s.OneOffError != nil {
		return -1, s.error()
	}
	s.AllCmds = append(s.AllCmds, cmd)
	return len(s.AllCmds) - 1, nil
}

func (s *TestDB) CmdsWithSeq(from, upto int) ([]storedefs.Cmd, error) {
	if from < 0 {
		from = 0
	}
	if upto > len(s.AllCmds) {
		upto = len(s.AllCmds)
	}
	var cmds []storedefs.Cmd
	for i := from; i < upto; i++ {
		cmds = append(cmds, storedefs.Cmd{Text: s.AllCmds[i], Seq: i})
	}
	return cmds, s.error()
}
