package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/generativeaiagent"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
	log "github.com/sirupsen/logrus"
)

// ObjectStorageClient is the slice of the Object Storage API the store needs.
type ObjectStorageClient interface {
	PutObject(ctx context.Context, request objectstorage.PutObjectRequest) (objectstorage.PutObjectResponse, error)
}

// IngestionClient is the slice of the Generative AI Agent API the store needs.
type IngestionClient interface {
	CreateDataIngestionJob(ctx context.Context, request generativeaiagent.CreateDataIngestionJobRequest) (generativeaiagent.CreateDataIngestionJobResponse, error)
}

// TriggerStore wraps the OCI clients and deployment identities used by the handler.
type TriggerStore struct {
	ObjectStorage ObjectStorageClient
	Ingestion     IngestionClient
	CompartmentId string
	DataSourceId  string
}

// NewTriggerStore returns a TriggerStore for the given clients.
func NewTriggerStore(objectStorage ObjectStorageClient, ingestion IngestionClient,
	compartmentId string, dataSourceId string) *TriggerStore {
	return &TriggerStore{
		ObjectStorage: objectStorage,
		Ingestion:     ingestion,
		CompartmentId: compartmentId,
		DataSourceId:  dataSourceId,
	}
}

// WriteMetadataSidecar puts the metadata document next to the report object,
// named by appending ".json" to the original object name. Re-delivery of the
// same event overwrites the sidecar.
func (s *TriggerStore) WriteMetadataSidecar(ctx context.Context, namespace string, bucket string,
	objectName string, meta ReportMetadata) error {

	payload, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	sidecarName := objectName + ".json"
	request := objectstorage.PutObjectRequest{
		NamespaceName:      common.String(namespace),
		BucketName:         common.String(bucket),
		ObjectName:         common.String(sidecarName),
		ContentLength:      common.Int64(int64(len(payload))),
		ContentType:        common.String("application/json"),
		PutObjectBody:      io.NopCloser(bytes.NewReader(payload)),
		OpcClientRequestId: common.String(uuid.New().String()),
	}

	_, err = s.ObjectStorage.PutObject(ctx, request)
	if err != nil {
		return err
	}

	log.WithFields(
		log.Fields{
			"bucket": bucket,
			"object": sidecarName,
		}).Debug("Metadata sidecar written.")

	return nil
}

// StartIngestionJob submits one data-ingestion job for the configured data
// source. The job is fire-and-forget; completion is not tracked here.
func (s *TriggerStore) StartIngestionJob(ctx context.Context, displayName string) error {

	request := generativeaiagent.CreateDataIngestionJobRequest{
		CreateDataIngestionJobDetails: generativeaiagent.CreateDataIngestionJobDetails{
			CompartmentId: common.String(s.CompartmentId),
			DataSourceId:  common.String(s.DataSourceId),
			DisplayName:   common.String(displayName),
		},
		OpcRetryToken: common.String(uuid.New().String()),
	}

	_, err := s.Ingestion.CreateDataIngestionJob(ctx, request)
	if err != nil {
		return err
	}

	log.WithFields(
		log.Fields{
			"display_name":   displayName,
			"data_source_id": s.DataSourceId,
		}).Debug("Ingestion job submitted.")

	return nil
}
