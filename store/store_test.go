// SPDX-License-Identifier: MIT

package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/solution"
	"github.com/katalvlaran/sortshoot/store"
	"github.com/katalvlaran/sortshoot/symbolic"
)

func sizeModel(t *testing.T, name string, a model.Assortativity, scale float64) *model.Model {
	t.Helper()
	unit := model.Bounds{Lower: 0, Upper: 1}
	muPrime := "-s/theta"
	if a == model.Positive {
		muPrime = "s/theta"
	}
	m, err := model.New(a, unit, unit, model.Equations{
		MuPrime:    symbolic.MustParse(muPrime),
		ThetaPrime: symbolic.N(0),
		Wage:       symbolic.MustParse("1 + x"),
		Profit:     symbolic.MustParse("1 + mu"),
	}, model.WithName(name), model.WithParam("s", scale))
	require.NoError(t, err)
	return m
}

func solve(t *testing.T, m *model.Model) *shooting.Result {
	t.Helper()
	solver, err := shooting.New(m)
	require.NoError(t, err)
	res, err := solver.Solve(3.0, shooting.WithKnots(20))
	require.NoError(t, err)
	return res
}

type StoreSuite struct {
	suite.Suite
	ctx context.Context
	st  *store.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	st, err := store.Open(s.ctx, store.Memory)
	s.Require().NoError(err)
	s.st = st
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.st.Close())
}

func (s *StoreSuite) TestRoundTrip() {
	m := sizeModel(s.T(), "size", model.Positive, 1)
	res := solve(s.T(), m)

	saved, err := s.st.SaveRun(s.ctx, m, res)
	s.Require().NoError(err)
	s.Equal(res.ID, saved.ID)
	s.Equal("positive", saved.Assortativity)
	s.Equal("success", saved.Verdict)
	s.Equal("all_matched", saved.Reason)
	s.Equal(20, saved.Rows)
	s.Equal(solution.Decreasing, saved.Direction)

	got, err := s.st.GetRun(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.True(saved.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = saved.CreatedAt
	s.Equal(saved, got)
	s.Equal(map[string]float64{"s": 1}, got.Params)

	table, err := s.st.LoadTable(s.ctx, saved.ID)
	s.Require().NoError(err)
	s.Equal(res.Table.Direction(), table.Direction())
	s.Empty(cmp.Diff(res.Table.Rows(), table.Rows()))
}

func (s *StoreSuite) TestListRunsNewestFirst() {
	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "a"} {
		m := sizeModel(s.T(), name, model.Negative, 1)
		run, err := s.st.SaveRun(s.ctx, m, solve(s.T(), m))
		s.Require().NoError(err)
		ids = append(ids, run.ID)
	}

	all, err := s.st.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	s.Nil(all[0].Params)

	onlyA, err := s.st.ListRuns(s.ctx, store.Filter{Model: "a"})
	s.Require().NoError(err)
	s.Len(onlyA, 2)

	last, err := s.st.ListRuns(s.ctx, store.Filter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(last, 1)
	s.Equal(ids[2], last[0].ID)
}

func (s *StoreSuite) TestDelete() {
	m := sizeModel(s.T(), "size", model.Negative, 2)
	run, err := s.st.SaveRun(s.ctx, m, solve(s.T(), m))
	s.Require().NoError(err)

	s.Require().NoError(s.st.DeleteRun(s.ctx, run.ID))
	_, err = s.st.GetRun(s.ctx, run.ID)
	s.ErrorIs(err, store.ErrNotFound)
	_, err = s.st.LoadTable(s.ctx, run.ID)
	s.ErrorIs(err, store.ErrNotFound)
	s.ErrorIs(s.st.DeleteRun(s.ctx, run.ID), store.ErrNotFound)

	var n int
	s.Require().NoError(s.st.DB().QueryRowContext(s.ctx,
		`SELECT COUNT(*) FROM points WHERE run_id = ?`, run.ID.String()).Scan(&n))
	s.Zero(n)
}

func (s *StoreSuite) TestRejects() {
	m := sizeModel(s.T(), "size", model.Negative, 1)
	_, err := s.st.SaveRun(s.ctx, nil, nil)
	s.ErrorIs(err, store.ErrNilResult)
	_, err = s.st.SaveRun(s.ctx, m, &shooting.Result{})
	s.ErrorIs(err, store.ErrNilResult)

	res := solve(s.T(), m)
	_, err = s.st.SaveRun(s.ctx, m, res)
	s.Require().NoError(err)
	_, err = s.st.SaveRun(s.ctx, m, res)
	s.Error(err, "duplicate run id")

	runs, err := s.st.ListRuns(s.ctx, store.Filter{})
	s.Require().NoError(err)
	s.Len(runs, 1, "failed insert must roll back")
}

func TestOpen_FilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := store.Open(ctx, path)
	require.NoError(t, err)
	m := sizeModel(t, "size", model.Negative, 1)
	run, err := st.SaveRun(ctx, m, solve(t, m))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = store.Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.Theta0, got.Theta0)
}
