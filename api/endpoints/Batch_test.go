package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/replicahealth/dataportal/api/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doBatch(t *testing.T, gw *Gateway, roles []string, body string, query ...string) batchResponse {
	query = append([]string{"op", "batch"}, query...)
	resp := gw.Handle(context.Background(), makeRequest("POST", roles, body, query...))
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	var result batchResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	return result
}

func TestBatchFoundAndMissing(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	result := doBatch(t, gw, []string{privateRole}, `{"datasets": ["DCLP", "Nonexistent"]}`)

	require.Len(t, result.URLs, 2)
	assert.Equal(t, batchURL{
		Name: "DCLP",
		Key:  processedPrefix + "DCLP2.csv",
		Size: 2048000,
		URL:  "https://replica-general-data-repository.s3.amazonaws.com/processed_data_final_expanded/DCLP2.csv?X-Amz-Expires=3600&response-content-disposition=attachment%3B+filename%3D%22DCLP2.csv%22",
	}, result.URLs[0])
	assert.Equal(t, processedPrefix+"DCLP3.csv", result.URLs[1].Key)
	assert.Equal(t, []batchSkipped{{Name: "Nonexistent", Reason: "group name not found"}}, result.Skipped)
	assert.Equal(t, int64(3600), result.Expires)

	events := mocks.activity.Recorded()
	require.Len(t, events, 2)
	assert.Equal(t, activity.ActivityDownload, events[0].Activity)
	assert.Equal(t, "batch_download_2_files", events[0].Details["filename"])
	assert.Equal(t, []string{"DCLP"}, events[0].Details["datasets"])
	assert.Equal(t, 2, events[0].Details["fileCount"])
	assert.Equal(t, "private", events[0].Details["type"])
	assert.Equal(t, "private", events[1].Details["type"])
}

func TestBatchQueryFallback(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	// Repeats ignoring case are dropped, output is in group order not request order
	result := doBatch(t, gw, []string{publicRole, privateRole}, "", "datasets", " loop study public dataset, flairpublicdataset,FLAIRPUBLICDATASET,,")

	require.Len(t, result.URLs, 2)
	assert.Equal(t, "FLAIRPublicDataSet", result.URLs[0].Name)
	assert.Equal(t, "Loop study public dataset", result.URLs[1].Name)
	assert.Empty(t, result.Skipped)

	events := mocks.activity.Recorded()
	require.Len(t, events, 2)
	assert.Equal(t, []string{"FLAIRPublicDataSet", "Loop study public dataset"}, events[0].Details["datasets"])
	assert.Equal(t, "public", events[0].Details["type"])
}

func TestBatchBadBodyUsesQuery(t *testing.T) {
	gw, _ := makeTestGateway(defaultTestObjects())

	// Body isn't JSON, and a body with datasets that isn't an array doesn't count either
	for _, body := range []string{"datasets=DCLP", `{"datasets": "DCLP"}`, `{}`} {
		result := doBatch(t, gw, []string{privateRole}, body, "datasets", "Flair")
		assert.Empty(t, result.URLs, body)
		assert.Equal(t, []batchSkipped{{Name: "Flair", Reason: "group name not found"}}, result.Skipped, body)
	}
}

func TestBatchVisibility(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	result := doBatch(t, gw, []string{publicRole}, `{"datasets": ["dclp", "FLAIRPublicDataSet"]}`)

	require.Len(t, result.URLs, 1)
	assert.Equal(t, processedPrefix+"Flair.csv", result.URLs[0].Key)
	assert.Equal(t, []batchSkipped{{Name: "dclp", Reason: "insufficient permissions"}}, result.Skipped)

	// Nothing issued, nothing tracked
	mocks.activity.Events = nil
	result = doBatch(t, gw, []string{publicRole}, `{"datasets": ["DCLP"]}`)
	assert.Empty(t, result.URLs)
	assert.Empty(t, mocks.activity.Recorded())
}

func TestBatchNoDatasets(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())

	for _, body := range []string{"", `{"datasets": []}`, `{"datasets": [" ", 3]}`} {
		resp := gw.Handle(context.Background(), makeRequest("POST", []string{privateRole}, body, "op", "batch", "datasets", " , "))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.JSONEq(t, `{"error":"datasets required (array in JSON body or comma-separated in query)"}`, resp.Body)
	}

	assert.Equal(t, 0, mocks.signer.SignCount())
}

func TestBatchSigningFails(t *testing.T) {
	gw, mocks := makeTestGateway(defaultTestObjects())
	mocks.signer.FailKeys = []string{processedPrefix + "Loop_Part1_of_2.csv"}

	// Not asking for that group, so we don't care
	result := doBatch(t, gw, []string{privateRole}, `{"datasets": ["DCLP"]}`)
	assert.Len(t, result.URLs, 2)
	assert.Equal(t, 2, mocks.signer.SignCount())

	mocks.activity.Events = nil
	mocks.signer.FailKeys = []string{processedPrefix + "DCLP3.csv"}

	resp := gw.Handle(context.Background(), makeRequest("POST", []string{privateRole}, `{"datasets": ["DCLP"]}`, "op", "batch"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal error"}`, resp.Body)
	assert.Empty(t, mocks.activity.Recorded())
}
