package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/leshachaplin/gosquared/internal/domain"
)

func (i *IntegrationTestSuite) TestBuild() {
	ctx, cancel := context.WithTimeout(i.ctx, time.Second*10)
	defer cancel()

	cases := map[string]struct {
		settings       map[string]string
		expectedStatus int
	}{
		"ok": {
			settings:       settings(),
			expectedStatus: http.StatusOK,
		},
		"missing site token": {
			settings:       map[string]string{"api_key": "it-key"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for name, tc := range cases {
		tt := tc
		i.Run(name, func() {
			var out domain.Request
			err := i.client.Post(ctx, domain.KindPage, "", eventReq{Event: pageEvent(), Settings: tt.settings}, tt.expectedStatus, &out)
			i.Require().NoError(err)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			i.Equal(http.MethodPost, out.Method)
			i.True(strings.HasPrefix(out.URL, "https://api.gosquared.com/tracking/v1/pageview?"))
			i.Equal("application/json", out.Header("Content-Type"))
			i.True(out.ForwardClientHeaders)
			i.Contains(out.Body, `"visitor_id":"anon-1"`)
		})
	}
}

func (i *IntegrationTestSuite) TestEnqueue() {
	ctx, cancel := context.WithTimeout(i.ctx, time.Second*30)
	defer cancel()

	for n := 0; n < 10; n++ {
		var out struct {
			ID string `json:"id"`
		}
		err := i.client.Post(ctx, domain.KindPage, "/enqueue", eventReq{Event: pageEvent(), Settings: settings()}, http.StatusAccepted, &out)
		i.Require().NoError(err)
		i.NotEmpty(out.ID)
	}
}

func (i *IntegrationTestSuite) TestEnqueue_RejectsInvalidSettings() {
	ctx, cancel := context.WithTimeout(i.ctx, time.Second*10)
	defer cancel()

	var out apiError
	err := i.client.Post(ctx, domain.KindPage, "/enqueue", eventReq{Event: pageEvent()}, http.StatusUnprocessableEntity, &out)
	i.Require().NoError(err)
	i.Equal(http.StatusUnprocessableEntity, out.HTTP.Code)
}
