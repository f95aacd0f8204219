package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common/auth"
	"github.com/oracle/oci-go-sdk/v65/generativeaiagent"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
	log "github.com/sirupsen/logrus"
)

const (
	skipResponse    = "Skipping non-HTML file."
	successResponse = "Metadata created & Sync triggered."
)

var store *TriggerStore
var compartmentId string
var dataSourceId string

// init runs on cold start of the function and configures logging and the
// deployment identities for the ingestion job.
func init() {

	log.SetFormatter(&log.JSONFormatter{})
	ll, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(ll)
	}

	compartmentId = os.Getenv("COMPARTMENT_OCID")
	dataSourceId = os.Getenv("DATA_SOURCE_OCID")
}

// InitializeClients creates the resource-principal OCI clients and the store.
func InitializeClients() {

	provider, err := auth.ResourcePrincipalConfigurationProvider()
	if err != nil {
		log.Fatalf("ResourcePrincipalConfigurationProvider: %v\n", err)
	}

	objectStorageClient, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(provider)
	if err != nil {
		log.Fatalf("NewObjectStorageClient: %v\n", err)
	}

	agentClient, err := generativeaiagent.NewGenerativeAiAgentClientWithConfigurationProvider(provider)
	if err != nil {
		log.Fatalf("NewGenerativeAiAgentClient: %v\n", err)
	}

	store = NewTriggerStore(objectStorageClient, agentClient, compartmentId, dataSourceId)
}

// Handler is the function entrypoint. The response is always a plain string:
// a skip message, a success message, or "Error: <message>".
func Handler(ctx context.Context, in io.Reader, out io.Writer) {
	io.WriteString(out, HandleEvent(ctx, in))
}

// HandleEvent processes one Object Storage event and converts every failure
// into the textual error response.
func HandleEvent(ctx context.Context, in io.Reader) string {

	message, err := processEvent(ctx, in)
	if err != nil {
		log.Error("Report trigger failed: ", err)
		return fmt.Sprintf("Error: %s", err)
	}

	return message
}

func processEvent(ctx context.Context, in io.Reader) (string, error) {

	event, err := parseObjectEvent(in)
	if err != nil {
		return "", err
	}

	objectName := event.Data.ResourceName
	bucket := event.Data.AdditionalDetails.BucketName
	namespace := event.Data.AdditionalDetails.Namespace

	if !strings.HasSuffix(objectName, ".html") {
		log.WithFields(
			log.Fields{
				"object": objectName,
				"bucket": bucket,
			}).Info("Skipping non-HTML object.")
		return skipResponse, nil
	}

	reportType := classifyReportType(objectName)
	snapshotId, err := parseSnapshotId(objectName)
	if err != nil {
		return "", err
	}

	meta := NewReportMetadata(snapshotId, reportType)
	if err := store.WriteMetadataSidecar(ctx, namespace, bucket, objectName, meta); err != nil {
		return "", &SidecarWriteError{Bucket: bucket, ObjectName: objectName + ".json", Err: err}
	}

	displayName := fmt.Sprintf("AutoSync_%s_%d", reportType, snapshotId)
	if err := store.StartIngestionJob(ctx, displayName); err != nil {
		return "", &IngestionJobError{DisplayName: displayName, Err: err}
	}

	log.WithFields(
		log.Fields{
			"object":      objectName,
			"report_type": reportType,
			"snapshot_id": snapshotId,
		}).Info("Metadata created and ingestion job triggered.")

	return successResponse, nil
}

// parseObjectEvent decodes the event body and validates the fields the
// handler depends on.
func parseObjectEvent(in io.Reader) (*ObjectEvent, error) {

	var event ObjectEvent
	if err := json.NewDecoder(in).Decode(&event); err != nil {
		return nil, &PayloadMalformedError{Reason: err.Error()}
	}

	if event.Data.ResourceName == "" {
		return nil, &PayloadMalformedError{Reason: "missing data.resourceName"}
	}
	if event.Data.AdditionalDetails.BucketName == "" {
		return nil, &PayloadMalformedError{Reason: "missing data.additionalDetails.bucketName"}
	}
	if event.Data.AdditionalDetails.Namespace == "" {
		return nil, &PayloadMalformedError{Reason: "missing data.additionalDetails.namespace"}
	}

	return &event, nil
}

// classifyReportType maps an object name to a report type. The checks run in
// written order: ADDM before ASH, anything else is AWR.
func classifyReportType(objectName string) string {
	upper := strings.ToUpper(objectName)
	switch {
	case strings.Contains(upper, ReportTypeADDM):
		return ReportTypeADDM
	case strings.Contains(upper, ReportTypeASH):
		return ReportTypeASH
	}
	return ReportTypeAWR
}

// parseSnapshotId takes the token after the last underscore, strips the
// ".html" extension and parses it as an integer. A non-numeric token is a
// hard failure for the invocation.
func parseSnapshotId(objectName string) (int, error) {
	segments := strings.Split(objectName, "_")
	token := strings.TrimSuffix(segments[len(segments)-1], ".html")

	snapshotId, err := strconv.Atoi(token)
	if err != nil {
		return 0, &SnapshotParseError{ObjectName: objectName, Token: token}
	}

	return snapshotId, nil
}
