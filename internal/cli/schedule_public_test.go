// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli_test

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/sqlaudit/internal/cli"
)

type SchedulePublicTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (suite *SchedulePublicTestSuite) SetupTest() {
	suite.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (suite *SchedulePublicTestSuite) TestNewScheduler() {
	tests := []struct {
		name        string
		spec        string
		expectError bool
	}{
		{
			name: "when five field expression",
			spec: "*/5 * * * *",
		},
		{
			name: "when descriptor",
			spec: "@hourly",
		},
		{
			name: "when interval",
			spec: "@every 10m",
		},
		{
			name:        "when expression is invalid",
			spec:        "every tuesday",
			expectError: true,
		},
		{
			name:        "when seconds field is given",
			spec:        "0 */5 * * * *",
			expectError: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			s, err := cli.NewScheduler(suite.logger, tc.spec, func() {})

			if tc.expectError {
				suite.Error(err)
				suite.Nil(s)
				suite.Contains(err.Error(), tc.spec)
				return
			}

			suite.NoError(err)
			suite.NotNil(s)
		})
	}
}

func (suite *SchedulePublicTestSuite) TestRunsJobUntilStopped() {
	var runs atomic.Int32
	s, err := cli.NewScheduler(suite.logger, "@every 1s", func() {
		runs.Add(1)
	})
	suite.Require().NoError(err)

	s.Start()
	suite.Eventually(func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	stopped := runs.Load()
	time.Sleep(1200 * time.Millisecond)
	suite.Equal(stopped, runs.Load())
}

func (suite *SchedulePublicTestSuite) TestRecoversFromPanickingJob() {
	var runs atomic.Int32
	s, err := cli.NewScheduler(suite.logger, "@every 1s", func() {
		runs.Add(1)
		panic("sweep exploded")
	})
	suite.Require().NoError(err)

	s.Start()
	suite.Eventually(func() bool {
		return runs.Load() >= 2
	}, 4*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func (suite *SchedulePublicTestSuite) TestStopTimesOutOnLongJob() {
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	s, err := cli.NewScheduler(suite.logger, "@every 1s", func() {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	suite.Require().NoError(err)

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		suite.FailNow("job did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	begin := time.Now()
	s.Stop(ctx)
	suite.Less(time.Since(begin), time.Second)
}

func TestSchedulePublicTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulePublicTestSuite))
}
