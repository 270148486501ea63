package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
	"github.com/mcoot/unogame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &StorageSuite{Suite: storagetest.Suite{
		NewStorage: func(*testing.T) storage.Storage { return New() },
	}})
}

func (s *StorageSuite) TestSavedDocumentsAreCopies() {
	game := storagetest.Game("g1", "p1", "p2")
	err := s.Storage.RunInTransaction(s.Ctx, "g1", func(tx storage.Tx) error {
		return tx.SaveGame(s.Ctx, game)
	})
	s.Require().NoError(err)

	game.State.MustDraw = 8

	stored, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(0, stored.State.MustDraw)
}

func (s *StorageSuite) TestCancelledContextSkipsCommit() {
	ctx, cancel := context.WithCancel(s.Ctx)
	err := s.Storage.RunInTransaction(ctx, "g1", func(tx storage.Tx) error {
		cancel()
		return tx.SaveGame(ctx, storagetest.Game("g1", "p1"))
	})
	s.Error(err)

	_, err = s.Storage.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)
}
